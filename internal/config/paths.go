// Package config handles configuration loading, saving, and path management.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// ConfigDirName is the per-user configuration root under the home directory.
	ConfigDirName = ".config"

	// TodosDirName is the name of the directory holding one markdown file per todo.
	TodosDirName = "todos"

	// GlobalDirName is the name of the toodo settings directory.
	GlobalDirName = "toodo"

	// TodoFileExt is the extension of todo files.
	TodoFileExt = ".md"
)

// File names
const (
	DaemonFileName   = "daemon.yaml"
	SettingsFileName = "settings.yaml"
)

// ConfigHome returns ~/.config.
func ConfigHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigDirName), nil
}

// TodosDir returns the path to the todos directory (~/.config/todos/).
func TodosDir() (string, error) {
	dir, err := ConfigHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, TodosDirName), nil
}

// GlobalDir returns the path to the toodo directory (~/.config/toodo/).
func GlobalDir() (string, error) {
	dir, err := ConfigHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, GlobalDirName), nil
}

// GlobalDaemonFile returns the path to the daemon.yaml file.
func GlobalDaemonFile() (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DaemonFileName), nil
}

// GlobalSettingsFile returns the path to the settings.yaml file.
func GlobalSettingsFile() (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SettingsFileName), nil
}

// EnsureGlobalDir creates the toodo directory if it doesn't exist.
func EnsureGlobalDir() error {
	dir, err := GlobalDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// SanitizeName maps a todo name to its file key: every character outside
// [A-Za-z0-9_-] becomes '_'. Distinct names can collide.
func SanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// TodoFileName returns the filename for a todo name (e.g., "my_list.md").
func TodoFileName(name string) string {
	return SanitizeName(name) + TodoFileExt
}

// TodoFile returns the path to a todo's file inside dir.
func TodoFile(dir, name string) string {
	return filepath.Join(dir, TodoFileName(name))
}

// IsTodoFile reports whether a directory entry name looks like a todo file.
// Hidden files (including in-flight temp files) are skipped.
func IsTodoFile(filename string) bool {
	return !strings.HasPrefix(filename, ".") && filepath.Ext(filename) == TodoFileExt
}

// TodoKey returns the sanitized name a todo file was stored under.
func TodoKey(filename string) string {
	return strings.TrimSuffix(filepath.Base(filename), TodoFileExt)
}

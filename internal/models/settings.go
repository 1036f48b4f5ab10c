package models

import "time"

// DefaultExpirationSeconds is the TTL of new todos when nothing overrides it.
const DefaultExpirationSeconds = 3600

// DefaultTrayTodos is how many todos the tray shows.
const DefaultTrayTodos = 3

// TraySettings holds settings for the system tray summary.
type TraySettings struct {
	Enabled  bool `yaml:"enabled"`
	MaxTodos int  `yaml:"max_todos"`
}

// Settings represents global application settings.
// This corresponds to ~/.config/toodo/settings.yaml.
type Settings struct {
	Version           int          `yaml:"version"`
	DefaultExpiration int          `yaml:"default_expiration"` // seconds
	LogLevel          string       `yaml:"log_level"`          // "debug" | "info" | "warn" | "error"
	Tray              TraySettings `yaml:"tray"`
}

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version:           1,
		DefaultExpiration: DefaultExpirationSeconds,
		LogLevel:          "info",
		Tray: TraySettings{
			Enabled:  true,
			MaxTodos: DefaultTrayTodos,
		},
	}
}

// Expiration returns the configured TTL, falling back to the default for
// missing or non-positive values.
func (s *Settings) Expiration() time.Duration {
	if s.DefaultExpiration <= 0 {
		return DefaultExpirationSeconds * time.Second
	}
	return time.Duration(s.DefaultExpiration) * time.Second
}

// TrayTodos returns how many todos the tray should show.
func (s *Settings) TrayTodos() int {
	if s.Tray.MaxTodos <= 0 {
		return DefaultTrayTodos
	}
	return s.Tray.MaxTodos
}

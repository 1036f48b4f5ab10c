package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/toodo-app/toodo/internal/models"
)

// EnvDefaultExpiration overrides the TTL (in seconds) of newly created todos.
const EnvDefaultExpiration = "TODO_DEFAULT_EXPIRATION"

// LoadSettings loads the global settings from ~/.config/toodo/settings.yaml.
// If the file doesn't exist, returns default settings.
func LoadSettings() (*models.Settings, error) {
	path, err := GlobalSettingsFile()
	if err != nil {
		return nil, err
	}
	return LoadYAMLOrDefault(path, models.NewSettings)
}

// SaveSettings saves the global settings to ~/.config/toodo/settings.yaml.
func SaveSettings(settings *models.Settings) error {
	path, err := GlobalSettingsFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, settings)
}

// DefaultExpiration resolves the TTL for new todos. TODO_DEFAULT_EXPIRATION
// wins over settings. An unusable env value is reported through the error,
// alongside the settings TTL which is still returned.
func DefaultExpiration(settings *models.Settings) (time.Duration, error) {
	if settings == nil {
		settings = models.NewSettings()
	}
	fallback := settings.Expiration()

	raw, ok := os.LookupEnv(EnvDefaultExpiration)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback, nil
	}

	secs, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback, fmt.Errorf("invalid %s %q: %w", EnvDefaultExpiration, raw, err)
	}
	if secs <= 0 {
		return fallback, fmt.Errorf("invalid %s %q: must be a positive number of seconds", EnvDefaultExpiration, raw)
	}
	return time.Duration(secs) * time.Second, nil
}

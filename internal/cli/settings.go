package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toodo-app/toodo/internal/config"
	"github.com/toodo-app/toodo/internal/daemon/tray"
)

var (
	flagDefaultExpiration int
	flagTrayMax           int
	flagTray              string
	flagLogLevel          string
)

var settingsCmd = &cobra.Command{
	Use:     "settings",
	Aliases: []string{"config"},
	Short:   "Show or change settings",
	Long: `Show or change the settings in ~/.config/toodo/settings.yaml.

Without flags the current settings are printed. TODO_DEFAULT_EXPIRATION, when
set, overrides the default expiration for new todos.`,
	Args: cobra.NoArgs,
	RunE: runSettings,
}

func init() {
	settingsCmd.Flags().IntVar(&flagDefaultExpiration, "default-expiration", 0, "Lifetime of new todos in seconds")
	settingsCmd.Flags().IntVar(&flagTrayMax, "tray-max", 0, fmt.Sprintf("Todos shown in the tray (1-%d)", tray.MaxVisibleTodos))
	settingsCmd.Flags().StringVar(&flagTray, "tray", "", "Enable or disable the tray (on|off)")
	settingsCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "Daemon log level (debug|info|warn|error)")
}

func runSettings(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	changed := false
	flags := cmd.Flags()

	if flags.Changed("default-expiration") {
		if flagDefaultExpiration <= 0 {
			return fmt.Errorf("default expiration must be a positive number of seconds")
		}
		settings.DefaultExpiration = flagDefaultExpiration
		changed = true
	}
	if flags.Changed("tray-max") {
		if flagTrayMax < 1 || flagTrayMax > tray.MaxVisibleTodos {
			return fmt.Errorf("tray-max must be between 1 and %d", tray.MaxVisibleTodos)
		}
		settings.Tray.MaxTodos = flagTrayMax
		changed = true
	}
	if flags.Changed("tray") {
		switch strings.ToLower(flagTray) {
		case "on", "true", "yes":
			settings.Tray.Enabled = true
		case "off", "false", "no":
			settings.Tray.Enabled = false
		default:
			return fmt.Errorf("tray must be 'on' or 'off'")
		}
		changed = true
	}
	if flags.Changed("log-level") {
		switch strings.ToLower(flagLogLevel) {
		case "debug", "info", "warn", "error":
			settings.LogLevel = strings.ToLower(flagLogLevel)
		default:
			return fmt.Errorf("log-level must be one of debug, info, warn, error")
		}
		changed = true
	}

	if changed {
		if err := config.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		fmt.Println(styleSuccess.Render("Settings updated."))
	}

	trayState := "on"
	if !settings.Tray.Enabled {
		trayState = "off"
	}

	fmt.Printf("  %s %s\n", styleLabel.Render("Default expiration:"), styleValue.Render(settings.Expiration().String()))
	fmt.Printf("  %s %s\n", styleLabel.Render("Tray:              "), styleValue.Render(trayState))
	fmt.Printf("  %s %s\n", styleLabel.Render("Tray todos:        "), styleValue.Render(fmt.Sprint(settings.TrayTodos())))
	fmt.Printf("  %s %s\n", styleLabel.Render("Log level:         "), styleValue.Render(settings.LogLevel))

	if ttl, err := config.DefaultExpiration(settings); err != nil {
		fmt.Printf("\n%s %v\n", styleWarning.Render("Warning:"), err)
	} else if ttl != settings.Expiration() {
		fmt.Printf("\n%s\n", styleHint.Render(fmt.Sprintf("%s overrides the default expiration: %s",
			config.EnvDefaultExpiration, ttl)))
	}
	return nil
}

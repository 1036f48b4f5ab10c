// Package cli implements the toodo CLI commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/toodo-app/toodo/internal/config"
	"github.com/toodo-app/toodo/internal/daemon/todo"
	"github.com/toodo-app/toodo/internal/models"
)

var flagDir string

var rootCmd = &cobra.Command{
	Use:   "toodo",
	Short: "Manage short-lived todo lists",
	Long: `toodo manages the todo lists an agent keeps through the toodod MCP server.

Todos are markdown files in ~/.config/todos/ that expire after a while
(one hour by default, see TODO_DEFAULT_EXPIRATION and 'toodo settings').`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, styleError.Render("Error:")+" "+err.Error())
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "Todos directory (default ~/.config/todos)")

	// Add subcommands (alphabetical)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(rmStepCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(versionCmd)
}

// newManager builds a todo manager from settings, the environment and --dir.
func newManager() (*todo.Manager, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if settings == nil {
		settings = models.NewSettings()
	}

	ttl, err := config.DefaultExpiration(settings)
	if err != nil {
		fmt.Fprintln(os.Stderr, styleWarning.Render("Warning:")+" "+err.Error())
	}

	dir := flagDir
	if dir == "" {
		if dir, err = config.TodosDir(); err != nil {
			return nil, fmt.Errorf("failed to resolve todos directory: %w", err)
		}
	}

	return todo.NewManager(dir, ttl), nil
}

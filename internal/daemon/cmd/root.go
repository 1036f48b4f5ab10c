// Package cmd implements the toodod command line.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	flagNoTray bool
	flagDir    string
)

var rootCmd = &cobra.Command{
	Use:   "toodod",
	Short: "MCP server for short-lived todo lists",
	Long: `toodod serves todo tools to an MCP client over stdio and mirrors the
active todos into a system tray menu.

Add it to your MCP client configuration as a stdio server; it is not meant
to be run by hand.`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE:         runDaemon,
}

// Execute runs the daemon command line.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().BoolVar(&flagNoTray, "no-tray", false, "Run without the system tray")
	rootCmd.Flags().StringVar(&flagDir, "dir", "", "Todos directory (default ~/.config/todos)")
}

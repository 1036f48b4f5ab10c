package cli

import (
	"github.com/spf13/cobra"

	"github.com/toodo-app/toodo/internal/tui"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Open a live board of active todos",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := newManager()
		if err != nil {
			return err
		}
		return tui.Run(mgr)
	},
}

package cli

import (
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/toodo-app/toodo/internal/config"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Inspect the toodod MCP server",
	Long: `Inspect the toodod MCP server process.

toodod is started by MCP clients, so there is no start command.`,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	RunE:  runDaemonStatus,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the daemon",
	RunE:  runDaemonStop,
}

func init() {
	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonStopCmd)
}

func runDaemonStatus(cmd *cobra.Command, args []string) error {
	info, err := config.LiveDaemon()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}

	if info == nil {
		fmt.Println("Daemon is not running.")
		return nil
	}

	uptime := time.Since(info.StartedAt).Truncate(time.Second)

	tray := "no"
	if info.TrayOwner {
		tray = "yes"
	}

	fmt.Println("Daemon is running.")
	fmt.Printf("  PID:        %d\n", info.PID)
	fmt.Printf("  Instance:   %s\n", info.InstanceID)
	fmt.Printf("  Todos:      %s\n", info.TodosDir)
	fmt.Printf("  Tray:       %s\n", tray)
	fmt.Printf("  Uptime:     %s\n", uptime)
	return nil
}

func runDaemonStop(cmd *cobra.Command, args []string) error {
	info, err := config.LiveDaemon()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}

	if info == nil {
		fmt.Println("Daemon is not running.")
		return nil
	}

	// Send SIGTERM to the daemon process
	process, err := os.FindProcess(info.PID)
	if err != nil {
		return fmt.Errorf("failed to find daemon process: %w", err)
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to send stop signal: %w", err)
	}

	// Poll for shutdown (max 5 seconds)
	for i := 0; i < 50; i++ {
		time.Sleep(100 * time.Millisecond)
		owner, err := config.LiveDaemon()
		if err == nil && owner == nil {
			fmt.Println("Daemon stopped.")
			return nil
		}
	}

	return fmt.Errorf("daemon did not stop within timeout")
}

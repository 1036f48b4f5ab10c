package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/toodo-app/toodo/internal/config"
	"github.com/toodo-app/toodo/internal/daemon/server"
	"github.com/toodo-app/toodo/internal/daemon/todo"
	"github.com/toodo-app/toodo/internal/daemon/tray"
	"github.com/toodo-app/toodo/internal/daemon/watcher"
	"github.com/toodo-app/toodo/internal/log"
	"github.com/toodo-app/toodo/internal/models"
)

// daemon holds everything one toodod process runs.
type daemon struct {
	instanceID string
	settings   *models.Settings
	manager    *todo.Manager
	server     *server.Server
}

func runDaemon(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		log.Warn().Err(err).Msg("failed to load settings, using defaults")
		settings = models.NewSettings()
	}
	log.SetLevel(settings.LogLevel)

	ttl, err := config.DefaultExpiration(settings)
	if err != nil {
		log.Warn().Err(err).Dur("ttl", ttl).Msg("ignoring environment override")
	}

	dir := flagDir
	if dir == "" {
		if dir, err = config.TodosDir(); err != nil {
			return fmt.Errorf("failed to resolve todos directory: %w", err)
		}
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		log.Warn().Msg("toodod speaks MCP over stdin/stdout; run it from an MCP client")
	}

	manager := todo.NewManager(dir, ttl)
	d := &daemon{
		instanceID: uuid.New().String(),
		settings:   settings,
		manager:    manager,
		server:     server.New(manager),
	}

	log.Info().
		Str("instance", d.instanceID).
		Str("dir", dir).
		Dur("ttl", ttl).
		Msg("toodod starting")

	// Only one daemon draws the tray and owns daemon.yaml; MCP clients often
	// start several servers.
	wantTray := !flagNoTray && settings.Tray.Enabled
	owner, claimed, err := config.ClaimDaemon(
		models.NewDaemonInfo(d.instanceID, os.Getpid(), wantTray, d.manager.Dir()),
	)
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("failed to register daemon, running without the tray")
		return d.runHeadless()
	case !claimed:
		log.Info().
			Int("pid", owner.PID).
			Bool("tray_owner", owner.TrayOwner).
			Msg("another daemon is registered, running without the tray")
		return d.runHeadless()
	}

	if !wantTray {
		defer d.release()
		return d.runHeadless()
	}

	d.runWithTray()
	return nil
}

func (d *daemon) release() {
	if err := config.ReleaseDaemon(d.instanceID); err != nil {
		log.Warn().Err(err).Msg("failed to remove daemon info")
	}
}

// runHeadless serves MCP until stdin closes or a signal arrives.
func (d *daemon) runHeadless() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := d.server.Serve(ctx, os.Stdin, os.Stdout)
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	log.Info().Msg("toodod stopped")
	return nil
}

// runWithTray runs the daemon with a system tray icon on the main goroutine.
// systray.Run must occupy the main goroutine on macOS (Cocoa requirement).
func (d *daemon) runWithTray() {
	ctx, cancel := context.WithCancel(context.Background())

	var (
		presenter *tray.Presenter
		w         *watcher.Watcher
	)

	onStart := func() {
		presenter = tray.NewPresenter(d.manager, tray.SystrayFactory(),
			tray.WithMaxTodos(d.settings.TrayTodos()),
		)
		presenter.Start()

		// Pick up edits made by other processes (e.g. the toodo CLI).
		var err error
		w, err = watcher.New(d.manager.Dir())
		if err == nil {
			err = w.Start()
		}
		if err != nil {
			log.Warn().Err(err).Msg("failed to watch todos directory")
			w = nil
		} else {
			go func(w *watcher.Watcher) {
				for {
					select {
					case <-w.Events():
						presenter.Refresh()
					case <-w.Done():
						return
					}
				}
			}(w)
		}

		// Serve MCP in background
		go func() {
			if err := d.server.Serve(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("MCP server error")
			}
			tray.Quit()
		}()

		// Handle OS signals: quit tray on SIGINT/SIGTERM
		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			select {
			case sig := <-sigCh:
				log.Info().Str("signal", sig.String()).Msg("shutting down")
				tray.Quit()
			case <-ctx.Done():
			}
		}()
	}

	onExit := func() {
		cancel()
		if w != nil {
			w.Stop()
		}
		if presenter != nil {
			presenter.Stop()
		}
		d.release()
		log.Info().Msg("toodod stopped")
	}

	// This blocks the main goroutine until tray exits.
	tray.Run(onStart, onExit)
}

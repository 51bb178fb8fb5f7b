package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tmpllc001/focusmetrics/internal/infrastructure/config"
	"github.com/tmpllc001/focusmetrics/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the analytics API server",
	Long: `Start the local analytics API server.

The timer frontend drives sessions through the API; the inactivity
watchdog runs alongside it and fires interruptions when user activity
stops for too long.

Examples:
  focusmetrics serve              # Start on default port 8080
  focusmetrics serve --port 3000  # Start on port 3000`,
	RunE: runServe,
}

var servePort int

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (overrides FOCUSMETRICS_PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	port := servePort
	if port == 0 {
		cfg, err := config.LoadServer()
		if err != nil {
			return err
		}
		port = cfg.Port
	}

	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")
		cancel()
	}()

	server := web.NewServer(
		port,
		app.Recorder,
		app.Interruptions,
		app.Environment,
		app.Patterns,
		app.Compare,
		app.Reports,
		app.Templates,
		app.Logger,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(gctx)
	})
	g.Go(func() error {
		return app.Interruptions.Run(gctx)
	})
	if err := g.Wait(); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

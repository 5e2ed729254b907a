package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsonflow/internal/server"
)

// shutdownTimeout bounds how long in-flight requests may run after an
// interrupt.
const shutdownTimeout = 10 * time.Second

// serveCommand runs the HTTP API until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve exposes flatten, layout, render and the structural edits over HTTP
under /api/v1. The server keeps no documents: every request carries the
document it works on.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			runner, closeCache, err := c.newRunner(ctx)
			if err != nil {
				return err
			}
			defer closeCache()

			if addr == "" {
				addr = c.cfg.Server.Addr
			}
			defaults := c.pipelineOptions()
			defaults.Logger = nil
			srv := server.New(runner, c.Logger, server.Options{
				Addr:          addr,
				BodyLimit:     c.cfg.Server.BodyLimit,
				DropThreshold: c.cfg.Layout.DropThreshold,
				Defaults:      defaults,
			})
			return serveUntilDone(ctx, srv)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, \":8080\")")
	return cmd
}

// httpServer is the part of server.Server that serveUntilDone drives.
type httpServer interface {
	Start() error
	Shutdown(ctx context.Context) error
}

// serveUntilDone runs srv until it fails or ctx ends, then shuts it down
// gracefully.
func serveUntilDone(ctx context.Context, srv httpServer) error {
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	loggerFromContext(ctx).Info("shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

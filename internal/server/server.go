// Package server exposes the jsonflow pipeline over HTTP.
//
// The API is stateless: every request carries the document it works on
// and every edit response returns the edited document, so a browser
// front end keeps the only copy of the user's state.
//
// # Routes
//
//	GET  /healthz              build info
//	POST /api/v1/flatten       document → graph
//	POST /api/v1/layout        document → graph with positions
//	POST /api/v1/render        document → rendered artifacts
//	POST /api/v1/reparent      move a node under a new parent
//	POST /api/v1/transfer      move one property row to another node
//	POST /api/v1/apply         run a list of edits
//	POST /api/v1/drop-target   resolve a drag release to a node id
package server

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jsonflow/pkg/pipeline"
)

// DefaultBodyLimit caps request bodies when Options.BodyLimit is zero.
const DefaultBodyLimit = 10 << 20

// Options configures a Server.
type Options struct {
	Addr      string
	BodyLimit int64
	// DropThreshold is passed to layout.DropTarget; zero uses its default.
	DropThreshold float64
	// Defaults are merged into every request's pipeline options.
	Defaults pipeline.Options
}

// Server serves the HTTP API.
type Server struct {
	httpServer *http.Server
	runner     *pipeline.Runner
	logger     *log.Logger
	opts       Options
}

// New creates a server that runs requests through runner.
func New(runner *pipeline.Runner, logger *log.Logger, opts Options) *Server {
	if opts.BodyLimit <= 0 {
		opts.BodyLimit = DefaultBodyLimit
	}
	if logger == nil {
		logger = runner.Logger
	}
	s := &Server{runner: runner, logger: logger, opts: opts}
	s.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start listens on the configured address and blocks until the server is
// shut down.
func (s *Server) Start() error {
	s.logger.Info("starting API server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Serve accepts connections on l until the server is shut down.
func (s *Server) Serve(l net.Listener) error {
	s.logger.Info("starting API server", "addr", l.Addr().String())
	if err := s.httpServer.Serve(l); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

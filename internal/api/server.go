// Package api implements the decode service HTTP API.
//
// The server exposes a small JSON API on top of the decode pipeline:
//
//	GET    /healthz        liveness probe
//	POST   /v1/decode      decode a batch of shots against an inline graph
//	GET    /v1/runs        list archived runs
//	GET    /v1/runs/{id}   fetch one archived run
//	DELETE /v1/runs/{id}   delete an archived run
//
// Decode requests carry the detector graph inline, in the same JSON
// shape the io package reads from disk, so a client needs no server-side
// state before decoding.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/daypatu/ers-pymatching/pkg/decode"
	"github.com/daypatu/ers-pymatching/pkg/store"
)

// Server is the decode service.
type Server struct {
	runner *decode.Runner
	store  store.Store
	logger *log.Logger
	router chi.Router
}

// Config configures a server.
type Config struct {
	// Runner executes decodes. Required.
	Runner *decode.Runner

	// Store archives decode runs. Optional; without it the runs
	// endpoints return 404 and decodes are not archived.
	Store store.Store

	// Logger receives request logs. Defaults to log.Default().
	Logger *log.Logger

	// Timeout bounds request handling. Defaults to 60 seconds.
	Timeout time.Duration
}

// NewServer creates a server with its routes mounted.
func NewServer(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	s := &Server{
		runner: cfg.Runner,
		store:  cfg.Store,
		logger: cfg.Logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Timeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/decode", s.handleDecode)
		if s.store != nil {
			r.Get("/runs", s.handleListRuns)
			r.Get("/runs/{id}", s.handleGetRun)
			r.Delete("/runs/{id}", s.handleDeleteRun)
		}
	})
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe runs the server on addr until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("decode service listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

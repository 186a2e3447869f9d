// Package server runs a poke service: HTTP routing, lifecycle and the
// command line around it.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/jbweber/homelab/poke/internal/api"
	"github.com/jbweber/homelab/poke/internal/config"
	"github.com/jbweber/homelab/poke/internal/datastore"
	"github.com/jbweber/homelab/poke/internal/metrics"
)

// NewRouter builds the middleware stack shared by every service, then lets
// mount register the service routes
func NewRouter(logger zerolog.Logger, ds *datastore.Datastore, m *metrics.Metrics, mount func(chi.Router)) http.Handler {
	r := chi.NewRouter()

	r.Use(hlog.NewHandler(logger))
	r.Use(hlog.RequestIDHandler("req_id", "X-Request-Id"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	}))
	r.Use(middleware.Recoverer)
	r.Use(m.Middleware)

	r.Get("/healthz", api.HealthHandler(ds.DB))
	r.Method(http.MethodGet, "/metrics", m.Handler())
	mount(r)

	return r
}

// Server owns the HTTP listener and the datastore behind it
type Server struct {
	cfg        *config.Config
	logger     zerolog.Logger
	ds         *datastore.Datastore
	httpServer *http.Server
}

func New(cfg *config.Config, logger zerolog.Logger, ds *datastore.Datastore, handler http.Handler) *Server {
	return &Server{
		cfg:    cfg,
		logger: logger,
		ds:     ds,
		httpServer: &http.Server{
			Addr:         ":" + cfg.Server.Port,
			Handler:      handler,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests and
// closes the datastore
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", ln.Addr().String()).Msg("starting server")
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			_ = s.ds.Close()
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	return s.Shutdown(shutdownCtx)
}

// Shutdown stops the listener and closes the datastore
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	if err := s.ds.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	return nil
}

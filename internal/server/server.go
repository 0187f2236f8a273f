// Package server exposes the optimizer over HTTP.
//
// Routes:
//
//	GET  /healthz              liveness and build info
//	GET  /api/site             default site configuration
//	POST /api/optimize         run an optimization request (pipeline.Options JSON)
//	POST /api/audit            audit a layout document
//	POST /api/render?format=   render a layout document (svg, text, json, png, pdf)
//	GET  /api/optimize/stream  websocket: send options, receive progress then the result
//	GET  /metrics              Prometheus metrics
//
// Errors are returned as {"error": {"code": ..., "message": ...}} with a
// status derived from the error code.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/siteplan/pkg/pipeline"
	"github.com/matzehuels/siteplan/pkg/site"
)

const (
	// DefaultAddr is the listen address used by `siteplan serve`.
	DefaultAddr = "127.0.0.1:8080"

	// DefaultMaxBodyBytes limits request bodies.
	DefaultMaxBodyBytes = 1 << 20

	// DefaultRequestTimeout bounds a single optimize request.
	DefaultRequestTimeout = 2 * time.Minute

	shutdownTimeout = 10 * time.Second
)

// Config configures a Server. Zero values select defaults.
type Config struct {
	Site           site.Config
	MaxBodyBytes   int64
	RequestTimeout time.Duration
	Logger         *log.Logger
	Metrics        *Metrics
}

// Server serves the HTTP API.
type Server struct {
	cfg      Config
	runner   *pipeline.Runner
	logger   *log.Logger
	router   chi.Router
	upgrader websocket.Upgrader
}

// New builds a server and its routes.
func New(cfg Config) *Server {
	if cfg.Site == (site.Config{}) {
		cfg.Site = site.Default()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	s := &Server{
		cfg:    cfg,
		runner: pipeline.NewRunner(cfg.Logger),
		logger: cfg.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
		},
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/site", s.handleSite)
		r.Post("/optimize", s.handleOptimize)
		r.Post("/audit", s.handleAudit)
		r.Post("/render", s.handleRender)
		r.Get("/optimize/stream", s.handleStream)
	})
	if s.cfg.Metrics != nil {
		r.Handle("/metrics", s.cfg.Metrics.Handler())
	}
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

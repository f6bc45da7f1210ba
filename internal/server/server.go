// Package server assembles the HTTP surface: router, middleware, and
// lifecycle around net/http.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ChristianNyamekye/folioassist/internal/config"
	"github.com/ChristianNyamekye/folioassist/internal/observability"
	"github.com/ChristianNyamekye/folioassist/internal/server/handlers"
	servermw "github.com/ChristianNyamekye/folioassist/internal/server/middleware"
)

// Options carries the dependencies the router needs beyond configuration.
type Options struct {
	Chat    handlers.ChatService
	Health  *handlers.HealthManager
	Logger  *zap.Logger
	Metrics *observability.HTTPMetrics

	// MetricsGatherer serves GET /metrics when set.
	MetricsGatherer prometheus.Gatherer
}

// Server is the HTTP server for the chat API.
type Server struct {
	router *chi.Mux
	server *http.Server
	cfg    config.ServerConfig
	logger *zap.Logger
}

// New builds the router with the middleware chain in order: RealIP,
// RequestID, Recoverer, then metrics.
func New(cfg config.ServerConfig, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(servermw.RequestID)
	r.Use(chimw.Recoverer)
	if opts.Metrics != nil {
		r.Use(servermw.Metrics(opts.Metrics))
	}

	s := &Server{
		router: r,
		cfg:    cfg,
		logger: logger,
	}
	s.registerRoutes(opts)
	return s
}

// Start blocks serving requests until the listener fails or Shutdown runs.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	s.logger.Info("starting HTTP server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

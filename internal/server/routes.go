package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ChristianNyamekye/folioassist/internal/server/handlers"
)

// registerRoutes registers all HTTP routes
func (s *Server) registerRoutes(opts Options) {
	s.router.Post("/api/chat", handlers.NewChatHandler(opts.Chat, s.logger).ServeHTTP)

	health := opts.Health
	if health == nil {
		health = handlers.NewHealthManager(handlers.AppVersion)
	}
	s.router.Get("/health", health.HealthHandler)
	s.router.Get("/health/live", health.LivenessHandler)
	s.router.Get("/health/ready", health.ReadinessHandler)

	s.router.Get("/version", handlers.VersionHandler)

	if opts.MetricsGatherer != nil {
		s.router.Get("/metrics", promhttp.HandlerFor(opts.MetricsGatherer, promhttp.HandlerOpts{}).ServeHTTP)
	}

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Not found."}` + "\n"))
	})
}

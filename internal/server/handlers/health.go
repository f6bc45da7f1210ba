package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// ErrDegraded marks a check outcome that degrades the reported status
// without failing the probe.
var ErrDegraded = errors.New("degraded")

// HealthResponse represents the aggregate health check response.
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ProbeResponse represents an individual probe response.
type ProbeResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthChecker defines the interface for health-checkable components.
type HealthChecker interface {
	CheckHealth(ctx context.Context) error
}

// HealthCheckerFunc adapts a function to HealthChecker.
type HealthCheckerFunc func(ctx context.Context) error

func (f HealthCheckerFunc) CheckHealth(ctx context.Context) error { return f(ctx) }

// HealthManager runs registered checks and serves the probe endpoints.
type HealthManager struct {
	checkers map[string]HealthChecker
	version  string
}

// NewHealthManager creates a health manager.
func NewHealthManager(version string) *HealthManager {
	return &HealthManager{
		checkers: make(map[string]HealthChecker),
		version:  version,
	}
}

// RegisterChecker registers a named health checker. Not safe to call after
// the server has started.
func (hm *HealthManager) RegisterChecker(name string, checker HealthChecker) {
	hm.checkers[name] = checker
}

func (hm *HealthManager) runChecks(ctx context.Context) (map[string]string, string) {
	checks := make(map[string]string)
	status := "healthy"
	for name, checker := range hm.checkers {
		select {
		case <-ctx.Done():
			checks[name] = "timeout"
			if status == "healthy" {
				status = "degraded"
			}
			return checks, status
		default:
			switch err := checker.CheckHealth(ctx); {
			case err == nil:
				checks[name] = "healthy"
			case errors.Is(err, ErrDegraded):
				checks[name] = "degraded"
				if status == "healthy" {
					status = "degraded"
				}
			default:
				checks[name] = "unhealthy"
				status = "unhealthy"
			}
		}
	}
	return checks, status
}

// HealthHandler handles aggregate health check requests.
func (hm *HealthManager) HealthHandler(w http.ResponseWriter, r *http.Request) {
	checkCtx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks, status := hm.runChecks(checkCtx)
	code := http.StatusOK
	if status == "unhealthy" {
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, HealthResponse{
		Status:    status,
		Version:   hm.version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}

// LivenessHandler reports whether the process is running at all.
func (hm *HealthManager) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ProbeResponse{Status: "healthy", Timestamp: time.Now().UTC()})
}

// ReadinessHandler reports whether the service is ready to accept traffic.
func (hm *HealthManager) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	checkCtx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	_, status := hm.runChecks(checkCtx)
	code := http.StatusOK
	if status == "unhealthy" {
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, ProbeResponse{Status: status, Timestamp: time.Now().UTC()})
}

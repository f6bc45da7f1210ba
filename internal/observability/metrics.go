package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Chat request outcomes, used as the outcome label on RequestsTotal.
const (
	OutcomeSuccess       = "success"
	OutcomeEmptyReply    = "empty_reply"
	OutcomeRateLimited   = "rate_limited"
	OutcomeInvalidInput  = "invalid_input"
	OutcomeNoCredential  = "no_credential"
	OutcomeProviderError = "provider_error"
)

// ChatMetrics holds the Prometheus instruments for the chat pipeline.
type ChatMetrics struct {
	RequestsTotal    *prometheus.CounterVec
	RateLimitedTotal prometheus.Counter
	RedactionsTotal  prometheus.Counter
	ProviderSeconds  prometheus.Histogram
}

// NewChatMetrics registers the chat metrics on reg.
func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	factory := promauto.With(reg)
	return &ChatMetrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "folioassist_chat_requests_total",
			Help: "Total chat requests by outcome",
		}, []string{"outcome"}),
		RateLimitedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "folioassist_rate_limited_total",
			Help: "Total chat requests rejected by the rate limiter",
		}),
		RedactionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "folioassist_sanitizer_redactions_total",
			Help: "Total phrases redacted from visitor messages",
		}),
		ProviderSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "folioassist_provider_request_seconds",
			Help:    "Latency of language model provider calls",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// HTTPMetrics holds request-level instruments for the HTTP server.
type HTTPMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewHTTPMetrics registers the HTTP metrics on reg.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	factory := promauto.With(reg)
	return &HTTPMetrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "folioassist_http_requests_total",
			Help: "Total HTTP requests by method, endpoint and status",
		}, []string{"method", "endpoint", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "folioassist_http_request_duration_seconds",
			Help:    "HTTP request duration by method and endpoint",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
	}
}

// Package chat implements the request-handling core: admission control,
// input sanitization, exchange composition, and the provider call.
package chat

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ChristianNyamekye/folioassist/internal/chat/persona"
	"github.com/ChristianNyamekye/folioassist/internal/chat/ratelimit"
	"github.com/ChristianNyamekye/folioassist/internal/llm/driver"
	"github.com/ChristianNyamekye/folioassist/internal/observability"
)

// Generation parameters used when the persona document does not set its own.
const (
	MinMessageRunes    = 2
	defaultModel       = "gpt-4o-mini"
	defaultTemperature = 0.6
	defaultMaxTokens   = 400
)

// Reply is a successful chat outcome plus rate-limit bookkeeping for
// response headers.
type Reply struct {
	Text      string
	Limit     int
	Remaining int
}

// CredentialFn supplies the provider API key. It is evaluated per request so
// a credential change between deployments is picked up without a restart.
type CredentialFn func() string

// DriverFn builds a provider driver for a credential. Drivers are cached per
// credential.
type DriverFn func(apiKey string) driver.Driver

// Service orchestrates one stateless exchange per request. It keeps no
// conversation history: every request is independent.
type Service struct {
	ledger     ratelimit.Ledger
	doc        *persona.Document
	credential CredentialFn
	newDriver  DriverFn
	logger     *zap.Logger
	metrics    *observability.ChatMetrics

	mu      sync.Mutex
	drivers map[string]driver.Driver
}

// NewService wires the gatekeeper, persona, and provider factory together.
// metrics may be nil.
func NewService(ledger ratelimit.Ledger, doc *persona.Document, credential CredentialFn, newDriver DriverFn, logger *zap.Logger, metrics *observability.ChatMetrics) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		ledger:     ledger,
		doc:        doc,
		credential: credential,
		newDriver:  newDriver,
		logger:     logger,
		metrics:    metrics,
		drivers:    make(map[string]driver.Driver),
	}
}

// Chat runs the full pipeline for one visitor message, reading the raw JSON
// request body. Admission runs first and a structurally invalid body still
// consumes quota, so a throttled client sees the rate limit regardless of
// what it sends. Returned errors are the package sentinels for local
// validation failures, or the provider's error for generation failures.
func (s *Service) Chat(ctx context.Context, clientID string, body io.Reader) (*Reply, error) {
	result, err := s.ledger.Allow(ctx, clientID)
	if err != nil {
		// Ledger trouble must not take the chat feature down; admit and log.
		s.logger.Warn("rate limit ledger unavailable, admitting request",
			zap.String("client_id", clientID), zap.Error(err))
		result.Allowed = true
	}
	if !result.Allowed {
		s.count(observability.OutcomeRateLimited)
		if s.metrics != nil {
			s.metrics.RateLimitedTotal.Inc()
		}
		return nil, &RateLimitedError{RetryAfter: result.RetryAfter}
	}

	raw, err := decodeMessage(body)
	if err != nil {
		s.count(observability.OutcomeInvalidInput)
		return nil, err
	}

	sanitized, redactions := sanitize(raw)
	if redactions > 0 {
		s.logger.Info("redacted visitor message",
			zap.String("client_id", clientID), zap.Int("redactions", redactions))
		if s.metrics != nil {
			s.metrics.RedactionsTotal.Add(float64(redactions))
		}
	}
	if len([]rune(sanitized)) < MinMessageRunes {
		s.count(observability.OutcomeInvalidInput)
		return nil, ErrMessageTooShort
	}

	apiKey := strings.TrimSpace(s.credential())
	if apiKey == "" {
		s.count(observability.OutcomeNoCredential)
		return nil, ErrCredentialMissing
	}

	req := s.composeExchange(sanitized)

	start := time.Now()
	resp, err := s.driverFor(apiKey).Complete(ctx, req)
	if s.metrics != nil {
		s.metrics.ProviderSeconds.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		s.count(observability.OutcomeProviderError)
		s.logger.Error("provider call failed",
			zap.String("client_id", clientID), zap.Error(err))
		return nil, err
	}

	text := strings.TrimSpace(resp.Content)
	if text == "" {
		// An empty generation is still a success for the caller, but worth
		// surfacing to operators.
		s.count(observability.OutcomeEmptyReply)
		s.logger.Warn("provider returned empty reply", zap.String("client_id", clientID))
	} else {
		s.count(observability.OutcomeSuccess)
	}

	return &Reply{Text: text, Limit: result.Limit, Remaining: result.Remaining}, nil
}

// decodeMessage extracts the visitor message from the JSON body. The full
// body is read and unmarshalled in one piece, so trailing bytes after the
// JSON value are malformed rather than silently ignored. The message field
// is decoded loosely: a non-string value is a missing message, not a
// malformed body.
func decodeMessage(body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", ErrInvalidBody
	}
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", ErrInvalidBody
	}
	obj, _ := payload.(map[string]any)
	raw, ok := obj["message"].(string)
	if !ok || strings.TrimSpace(raw) == "" {
		return "", ErrMessageMissing
	}
	return raw, nil
}

// composeExchange builds the bounded two-message exchange: the fixed system
// persona followed by the sanitized user turn. The persona text never leaves
// the server except in this provider request.
func (s *Service) composeExchange(sanitized string) *driver.Request {
	model := strings.TrimSpace(s.doc.Config.Model)
	if model == "" {
		model = defaultModel
	}
	temperature := defaultTemperature
	if s.doc.Config.Temperature != nil {
		temperature = *s.doc.Config.Temperature
	}
	maxTokens := defaultMaxTokens
	if s.doc.Config.MaxTokens != nil {
		maxTokens = *s.doc.Config.MaxTokens
	}

	return &driver.Request{
		Model: model,
		Messages: []driver.Message{
			{Role: driver.RoleSystem, Content: s.doc.System},
			{Role: driver.RoleUser, Content: sanitized},
		},
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	}
}

func (s *Service) driverFor(apiKey string) driver.Driver {
	s.mu.Lock()
	defer s.mu.Unlock()
	if drv, ok := s.drivers[apiKey]; ok {
		return drv
	}
	drv := s.newDriver(apiKey)
	s.drivers[apiKey] = drv
	return drv
}

func (s *Service) count(outcome string) {
	if s.metrics != nil {
		s.metrics.RequestsTotal.WithLabelValues(outcome).Inc()
	}
}

// Persona reports the slug of the persona in use, for health reporting.
func (s *Service) Persona() string {
	return s.doc.Config.Slug
}

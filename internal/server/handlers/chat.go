package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/ChristianNyamekye/folioassist/internal/chat"
	"github.com/ChristianNyamekye/folioassist/internal/server/middleware"
)

// Error texts returned to the presentation layer. These are part of the
// public contract and must not change casually.
const (
	msgRateLimited   = "Too many requests. Please wait a moment and try again."
	msgInvalidBody   = "Invalid request body."
	msgMissing       = "Message is required."
	msgTooShort      = "Message too short."
	msgUnavailable   = "Service temporarily unavailable."
	msgProviderError = "Failed to get a response: %s"
)

// ChatService is the core pipeline consumed by the handler. It owns the
// whole request order, admission before body validation included; the
// handler only derives the client identifier and maps errors to the
// public contract.
type ChatService interface {
	Chat(ctx context.Context, clientID string, body io.Reader) (*chat.Reply, error)
}

// ChatHandler handles POST /api/chat.
type ChatHandler struct {
	svc    ChatService
	logger *zap.Logger
}

// NewChatHandler builds the handler. logger may be nil.
func NewChatHandler(svc ChatService, logger *zap.Logger) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{svc: svc, logger: logger}
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// ServeHTTP derives the client identifier, runs the pipeline, and relays
// the outcome using the public status/body contract.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	clientID := ClientID(r)

	reply, err := h.svc.Chat(r.Context(), clientID, r.Body)
	if err != nil {
		h.respondError(w, r, clientID, err)
		return
	}

	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(reply.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(reply.Remaining))
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply.Text})
}

func (h *ChatHandler) respondError(w http.ResponseWriter, r *http.Request, clientID string, err error) {
	var rle *chat.RateLimitedError
	switch {
	case errors.As(err, &rle):
		if rle.RetryAfter > 0 {
			seconds := int(math.Ceil(rle.RetryAfter.Seconds()))
			w.Header().Set("Retry-After", strconv.Itoa(seconds))
		}
		writeError(w, http.StatusTooManyRequests, msgRateLimited)
	case errors.Is(err, chat.ErrInvalidBody):
		writeError(w, http.StatusBadRequest, msgInvalidBody)
	case errors.Is(err, chat.ErrMessageMissing):
		writeError(w, http.StatusBadRequest, msgMissing)
	case errors.Is(err, chat.ErrMessageTooShort):
		writeError(w, http.StatusBadRequest, msgTooShort)
	case errors.Is(err, chat.ErrCredentialMissing):
		writeError(w, http.StatusServiceUnavailable, msgUnavailable)
	default:
		h.logger.Error("chat request failed",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.String("client_id", clientID),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, fmt.Sprintf(msgProviderError, err.Error()))
	}
}

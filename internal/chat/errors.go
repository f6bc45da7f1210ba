package chat

import (
	"errors"
	"time"
)

// Validation failures detected before any provider call. All are recoverable
// by the caller and never retried server-side.
var (
	ErrRateLimited       = errors.New("rate limit exceeded")
	ErrInvalidBody       = errors.New("invalid request body")
	ErrMessageMissing    = errors.New("message is required")
	ErrMessageTooShort   = errors.New("message too short")
	ErrCredentialMissing = errors.New("provider credential not configured")
)

// RateLimitedError carries the wait hint alongside the rejection.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return ErrRateLimited.Error()
}

// Is lets errors.Is(err, ErrRateLimited) match.
func (e *RateLimitedError) Is(target error) bool {
	return target == ErrRateLimited
}

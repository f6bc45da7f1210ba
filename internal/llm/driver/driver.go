// Package driver defines the provider-agnostic chat-completion interface.
package driver

import "context"

// Message roles understood by chat-completion providers.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Driver defines the interface for chat-completion providers.
type Driver interface {
	// Complete sends a completion request and returns the generated reply.
	Complete(ctx context.Context, req *Request) (*Response, error)
	// Name returns the driver identifier (e.g., "openai").
	Name() string
}

// Message is a single role-tagged entry in an exchange.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a provider-agnostic completion request.
type Request struct {
	Model       string
	Messages    []Message
	Temperature *float64
	MaxTokens   *int
}

// Usage contains token usage statistics.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a provider-agnostic completion response.
//
// Content may be empty when the provider returns no text; callers decide
// whether that is acceptable.
type Response struct {
	Content      string
	FinishReason string
	Usage        *Usage
}

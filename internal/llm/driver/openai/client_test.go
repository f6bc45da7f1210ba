package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ChristianNyamekye/folioassist/internal/llm/driver"
)

func TestClientRequiresAPIKey(t *testing.T) {
	client := NewClient("", "")
	_, err := client.Complete(context.Background(), &driver.Request{Model: "test", Messages: []driver.Message{{Role: driver.RoleUser, Content: "hi"}}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "api key")
}

func TestClientRequiresModel(t *testing.T) {
	client := NewClient("", "test-key")
	_, err := client.Complete(context.Background(), &driver.Request{Messages: []driver.Message{{Role: driver.RoleUser, Content: "hi"}}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "model")
}

func TestClientSendsRequestAndParsesResponse(t *testing.T) {
	temperature := 0.6
	maxTokens := 400

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var payload map[string]any
		require.NoError(t, json.Unmarshal(body, &payload))
		require.Equal(t, "test-model", payload["model"])
		require.InDelta(t, 0.6, payload["temperature"], 0.001)
		require.InDelta(t, 400, payload["max_tokens"], 0.001)

		messages, ok := payload["messages"].([]any)
		require.True(t, ok)
		require.Len(t, messages, 2)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Christian built EgoDex."},"finish_reason":"stop"}],"usage":{"prompt_tokens":1,"completion_tokens":2,"total_tokens":3}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	client.HTTPClient = server.Client()

	resp, err := client.Complete(context.Background(), &driver.Request{
		Model: "test-model",
		Messages: []driver.Message{
			{Role: driver.RoleSystem, Content: "sys"},
			{Role: driver.RoleUser, Content: "usr"},
		},
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	require.Equal(t, "Christian built EgoDex.", resp.Content)
	require.Equal(t, "stop", resp.FinishReason)
	require.NotNil(t, resp.Usage)
	require.Equal(t, 3, resp.Usage.TotalTokens)
}

func TestClientErrorsOnNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("nope"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	client.HTTPClient = server.Client()

	_, err := client.Complete(context.Background(), &driver.Request{Model: "test", Messages: []driver.Message{{Role: driver.RoleUser, Content: "hi"}}})
	require.Error(t, err)

	var provErr *driver.ProviderError
	require.ErrorAs(t, err, &provErr)
	require.Equal(t, http.StatusUnauthorized, provErr.StatusCode)
	require.Contains(t, err.Error(), "status 401")
	require.Contains(t, err.Error(), "nope")
}

func TestClientReturnsEmptyContentForMissingChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	client.HTTPClient = server.Client()

	resp, err := client.Complete(context.Background(), &driver.Request{Model: "test", Messages: []driver.Message{{Role: driver.RoleUser, Content: "hi"}}})
	require.NoError(t, err)
	require.Equal(t, "", resp.Content)
}

func TestClientHonorsTimeout(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	client := NewClient(server.URL, "test-key")
	client.HTTPClient = server.Client()
	client.Timeout = 50 * time.Millisecond

	_, err := client.Complete(context.Background(), &driver.Request{Model: "test", Messages: []driver.Message{{Role: driver.RoleUser, Content: "hi"}}})
	require.Error(t, err)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

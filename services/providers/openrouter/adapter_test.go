package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verdantweb/ai-router/models"
	"github.com/verdantweb/ai-router/services/providers"
)

func testProvider(endpoint string) models.ProviderConfig {
	return models.ProviderConfig{
		ID:           "openrouter",
		Endpoint:     endpoint,
		Model:        "google/gemini-2.0-flash-001",
		APIKeyEnvVar: "TEST_OPENROUTER_KEY",
	}
}

func TestAdapter_Generate(t *testing.T) {
	t.Setenv("TEST_OPENROUTER_KEY", "sk-or-test")

	t.Run("successful completion", func(t *testing.T) {
		var gotReq chatRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer sk-or-test", r.Header.Get("Authorization"))
			assert.Equal(t, "https://app.example", r.Header.Get("HTTP-Referer"))

			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

			json.NewEncoder(w).Encode(chatResponse{
				Choices: []chatChoice{
					{Message: chatMessage{Role: "assistant", Content: "Generated headline"}},
				},
			})
		}))
		defer server.Close()

		adapter := NewAdapter(server.Client(), "https://app.example")
		text, err := adapter.Generate(context.Background(), testProvider(server.URL), providers.Request{
			Prompt:      "Write a headline",
			MaxTokens:   200,
			Temperature: 0.7,
		})

		require.NoError(t, err)
		assert.Equal(t, "Generated headline", text)
		assert.Equal(t, "google/gemini-2.0-flash-001", gotReq.Model)
		require.Len(t, gotReq.Messages, 1)
		assert.Equal(t, "user", gotReq.Messages[0].Role)
		assert.Equal(t, "Write a headline", gotReq.Messages[0].Content)
		assert.Equal(t, 200, gotReq.MaxTokens)
	})

	t.Run("upstream error keeps raw body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":{"message":"rate limit exceeded"}}`))
		}))
		defer server.Close()

		adapter := NewAdapter(server.Client(), "")
		_, err := adapter.Generate(context.Background(), testProvider(server.URL), providers.Request{Prompt: "hi"})

		require.Error(t, err)
		require.True(t, providers.IsTransportError(err))
		assert.Contains(t, err.Error(), "429")
		assert.Contains(t, err.Error(), "rate limit exceeded")
	})

	t.Run("large upstream error body is not truncated", func(t *testing.T) {
		long := `{"error":{"message":"` + strings.Repeat("x", 4000) + `"}}`
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(long))
		}))
		defer server.Close()

		adapter := NewAdapter(server.Client(), "")
		_, err := adapter.Generate(context.Background(), testProvider(server.URL), providers.Request{Prompt: "hi"})

		require.Error(t, err)
		var transportErr *providers.TransportError
		require.ErrorAs(t, err, &transportErr)
		assert.Equal(t, long, transportErr.Body)
	})

	t.Run("empty choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(chatResponse{})
		}))
		defer server.Close()

		adapter := NewAdapter(server.Client(), "")
		_, err := adapter.Generate(context.Background(), testProvider(server.URL), providers.Request{Prompt: "hi"})

		require.Error(t, err)
		assert.True(t, providers.IsEmptyResponseError(err))
	})

	t.Run("missing credential fails before network", func(t *testing.T) {
		provider := testProvider("http://127.0.0.1:1")
		provider.APIKeyEnvVar = "TEST_OPENROUTER_UNSET"

		adapter := NewAdapter(nil, "")
		_, err := adapter.Generate(context.Background(), provider, providers.Request{Prompt: "hi"})

		require.Error(t, err)
		assert.True(t, providers.IsConfigurationError(err))
	})
}

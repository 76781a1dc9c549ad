package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/verdantweb/ai-router/models"
	"github.com/verdantweb/ai-router/services/providers"
)

// Adapter calls OpenRouter's OpenAI-compatible chat completions endpoint
type Adapter struct {
	httpClient *http.Client
	referer    string
}

// NewAdapter creates a new OpenRouter adapter. The referer is sent as the
// HTTP-Referer header OpenRouter uses for app attribution.
func NewAdapter(httpClient *http.Client, referer string) *Adapter {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Adapter{
		httpClient: httpClient,
		referer:    referer,
	}
}

// ID returns the registry id this adapter serves
func (a *Adapter) ID() string {
	return "openrouter"
}

// Generate performs one chat completion call
func (a *Adapter) Generate(ctx context.Context, provider models.ProviderConfig, req providers.Request) (string, error) {
	apiKey, err := providers.Credential(provider)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(chatRequest{
		Model: provider.Model,
		Messages: []chatMessage{
			{Role: "user", Content: req.Prompt},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal openrouter request: %w", err)
	}

	url := provider.Endpoint + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create openrouter request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	if a.referer != "" {
		httpReq.Header.Set("HTTP-Referer", a.referer)
	}

	httpResp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return "", &providers.TransportError{Provider: a.ID(), Cause: err}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", &providers.TransportError{Provider: a.ID(), StatusCode: httpResp.StatusCode, Cause: err}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		// the raw upstream body is the diagnostic; previews are capped
		// later by the recorder, not here
		return "", &providers.TransportError{
			Provider:   a.ID(),
			StatusCode: httpResp.StatusCode,
			Body:       string(respBody),
		}
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", &providers.TransportError{Provider: a.ID(), StatusCode: httpResp.StatusCode, Cause: err}
	}

	if len(chatResp.Choices) == 0 {
		return "", &providers.EmptyResponseError{Provider: a.ID()}
	}

	return providers.EnsureText(a.ID(), chatResp.Choices[0].Message.Content)
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

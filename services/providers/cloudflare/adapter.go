package cloudflare

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

const accountIDEnvVar = "CLOUDFLARE_ACCOUNT_ID"

// Adapter calls Cloudflare Workers AI. The run URL embeds both the account
// id and the model name, so this provider needs CLOUDFLARE_ACCOUNT_ID on
// top of its API token.
type Adapter struct {
	httpClient *http.Client
}

// NewAdapter creates a new Cloudflare Workers AI adapter
func NewAdapter(httpClient *http.Client) *Adapter {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Adapter{httpClient: httpClient}
}

// ID returns the registry id this adapter serves
func (a *Adapter) ID() string {
	return "cloudflare"
}

// Generate performs one completion call against the Workers AI run endpoint
func (a *Adapter) Generate(ctx context.Context, provider models.ProviderConfig, req providers.Request) (string, error) {
	apiToken, err := providers.Credential(provider)
	if err != nil {
		return "", err
	}

	accountID, err := providers.RequireEnv(a.ID(), accountIDEnvVar)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(runRequest{
		Messages: []runMessage{
			{Role: "user", Content: req.Prompt},
		},
		MaxTokens: req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal cloudflare request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/ai/run/%s", provider.Endpoint, accountID, provider.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create cloudflare request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiToken)

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
		return "", &providers.TransportError{
			Provider:   a.ID(),
			StatusCode: httpResp.StatusCode,
			Body:       string(respBody),
		}
	}

	var runResp runResponse
	if err := json.Unmarshal(respBody, &runResp); err != nil {
		return "", &providers.TransportError{Provider: a.ID(), StatusCode: httpResp.StatusCode, Cause: err}
	}

	return providers.EnsureText(a.ID(), runResp.Result.Response)
}

type runRequest struct {
	Messages  []runMessage `json:"messages"`
	MaxTokens int          `json:"max_tokens,omitempty"`
}

type runMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type runResponse struct {
	Result  runResult `json:"result"`
	Success bool      `json:"success"`
}

type runResult struct {
	Response string `json:"response"`
}

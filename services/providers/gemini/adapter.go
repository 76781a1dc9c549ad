package gemini

import (
	"context"

	"github.com/verdantweb/ai-router/models"
	"github.com/verdantweb/ai-router/services/providers"
	"google.golang.org/genai"
)

// Adapter calls the Gemini API through the official SDK
type Adapter struct{}

// NewAdapter creates a new Gemini adapter
func NewAdapter() *Adapter {
	return &Adapter{}
}

// ID returns the registry id this adapter serves
func (a *Adapter) ID() string {
	return "gemini"
}

// Generate performs one completion call. The SDK client is built per call
// so the credential env var from the registry row is honored even after
// admin edits.
func (a *Adapter) Generate(ctx context.Context, provider models.ProviderConfig, req providers.Request) (string, error) {
	apiKey, err := providers.Credential(provider)
	if err != nil {
		return "", err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", &providers.TransportError{Provider: a.ID(), Cause: err}
	}

	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(req.MaxTokens),
		Temperature:     genai.Ptr(float32(req.Temperature)),
	}

	resp, err := client.Models.GenerateContent(ctx, provider.Model, genai.Text(req.Prompt), config)
	if err != nil {
		return "", &providers.TransportError{Provider: a.ID(), Cause: err}
	}

	return providers.EnsureText(a.ID(), resp.Text())
}

package providers

import (
	"context"
	"os"

	"github.com/verdantweb/ai-router/models"
)

// Request carries the generation parameters common to every provider
type Request struct {
	// Prompt is the full text sent as a single user message
	Prompt string `json:"prompt"`

	// MaxTokens caps the response length
	MaxTokens int `json:"maxTokens"`

	// Temperature controls randomness (0.0 to 2.0)
	Temperature float64 `json:"temperature"`
}

// Adapter translates a generation request into one provider's wire format.
// Adapters are stateless: the registry row is passed on every call so that
// admin edits to model, endpoint or credential env var take effect
// immediately without reconstructing anything.
type Adapter interface {
	// ID returns the registry id this adapter serves (e.g. "gemini")
	ID() string

	// Generate performs one completion call and returns the response text
	Generate(ctx context.Context, provider models.ProviderConfig, req Request) (string, error)
}

// Credential resolves the provider's API key from its configured env var.
// A missing or empty value is a ConfigurationError so callers can fail
// before touching the network.
func Credential(provider models.ProviderConfig) (string, error) {
	key := os.Getenv(provider.APIKeyEnvVar)
	if key == "" {
		return "", &ConfigurationError{
			Provider: provider.ID,
			EnvVar:   provider.APIKeyEnvVar,
		}
	}
	return key, nil
}

// RequireEnv resolves an additional env var some providers need beyond the
// API key (e.g. an account id).
func RequireEnv(providerID, envVar string) (string, error) {
	value := os.Getenv(envVar)
	if value == "" {
		return "", &ConfigurationError{Provider: providerID, EnvVar: envVar}
	}
	return value, nil
}

// EnsureText guards against providers answering 200 with no usable text
func EnsureText(providerID, text string) (string, error) {
	if text == "" {
		return "", &EmptyResponseError{Provider: providerID}
	}
	return text, nil
}

package registry

import "github.com/verdantweb/ai-router/models"

// DefaultProviders is the seed set for a fresh installation. Priorities
// follow cost: the free Gemini tier first, paid OpenAI last.
var DefaultProviders = []models.ProviderConfig{
	{
		ID:           "gemini",
		Name:         "Google Gemini",
		Enabled:      true,
		Priority:     1,
		Endpoint:     "https://generativelanguage.googleapis.com",
		Model:        "gemini-2.5-flash-preview-05-20",
		APIKeyEnvVar: "GEMINI_API_KEY",
		Limits: models.ProviderLimits{
			RequestsPerMinute: 15,
			RequestsPerDay:    1500,
			TokensPerMinute:   1000000,
		},
	},
	{
		ID:           "openrouter",
		Name:         "OpenRouter",
		Enabled:      true,
		Priority:     2,
		Endpoint:     "https://openrouter.ai/api/v1",
		Model:        "google/gemini-2.0-flash-001",
		APIKeyEnvVar: "OPENROUTER_API_KEY",
		Limits: models.ProviderLimits{
			RequestsPerMinute: 50,
			RequestsPerDay:    500,
			TokensPerMinute:   500000,
		},
	},
	{
		ID:           "cloudflare",
		Name:         "Cloudflare Workers AI",
		Enabled:      true,
		Priority:     3,
		Endpoint:     "https://api.cloudflare.com/client/v4/accounts",
		Model:        "@cf/meta/llama-3.2-3b-instruct",
		APIKeyEnvVar: "CLOUDFLARE_API_TOKEN",
		Limits: models.ProviderLimits{
			RequestsPerMinute: 30,
			RequestsPerDay:    300,
			TokensPerMinute:   200000,
		},
	},
	{
		ID:           "openai",
		Name:         "OpenAI",
		Enabled:      true,
		Priority:     4,
		Endpoint:     "https://api.openai.com/v1",
		Model:        "gpt-4o-mini",
		APIKeyEnvVar: "OPENAI_API_KEY",
		Limits: models.ProviderLimits{
			RequestsPerMinute: 60,
			RequestsPerDay:    10000,
			TokensPerMinute:   150000,
		},
	},
}

// defaultsCopy returns a fresh slice so callers can never mutate the seeds
func defaultsCopy() []models.ProviderConfig {
	out := make([]models.ProviderConfig, len(DefaultProviders))
	copy(out, DefaultProviders)
	return out
}

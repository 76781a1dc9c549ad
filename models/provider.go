package models

import "time"

// ProviderLimits holds the rate limits configured for a provider.
// The router does not enforce these itself; they are surfaced to the
// admin UI so quota consumption can be rendered against requestsPerDay.
type ProviderLimits struct {
	RequestsPerMinute int `json:"requestsPerMinute"`
	RequestsPerDay    int `json:"requestsPerDay"`
	TokensPerMinute   int `json:"tokensPerMinute"`
}

// ProviderConfig is one row of the provider registry. Providers are tried
// in ascending priority order; disabled providers are skipped entirely.
// APIKeyEnvVar names the environment variable holding the credential --
// the credential value itself is never persisted.
type ProviderConfig struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Enabled      bool           `json:"enabled"`
	Priority     int            `json:"priority"`
	Endpoint     string         `json:"endpoint"`
	Model        string         `json:"model"`
	APIKeyEnvVar string         `json:"apiKeyEnvVar"`
	Limits       ProviderLimits `json:"limits"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// ProviderUpdate is a partial update of a provider row. Nil fields are
// left untouched.
type ProviderUpdate struct {
	Name              *string `json:"name,omitempty"`
	Enabled           *bool   `json:"enabled,omitempty"`
	Priority          *int    `json:"priority,omitempty"`
	Endpoint          *string `json:"endpoint,omitempty"`
	Model             *string `json:"model,omitempty"`
	APIKeyEnvVar      *string `json:"apiKeyEnvVar,omitempty"`
	RequestsPerMinute *int    `json:"requestsPerMinute,omitempty"`
	RequestsPerDay    *int    `json:"requestsPerDay,omitempty"`
	TokensPerMinute   *int    `json:"tokensPerMinute,omitempty"`
}

// Empty reports whether the update would change nothing.
func (u *ProviderUpdate) Empty() bool {
	return u.Name == nil && u.Enabled == nil && u.Priority == nil &&
		u.Endpoint == nil && u.Model == nil && u.APIKeyEnvVar == nil &&
		u.RequestsPerMinute == nil && u.RequestsPerDay == nil && u.TokensPerMinute == nil
}

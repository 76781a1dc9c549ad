package models

// UsageCounter aggregates requests, tokens and errors for one provider on
// one calendar day (date is "YYYY-MM-DD"). Counters only ever increment.
type UsageCounter struct {
	ID            int64  `json:"id"`
	ProviderID    string `json:"providerId"`
	Date          string `json:"date"`
	RequestsCount int    `json:"requestsCount"`
	TokensCount   int    `json:"tokensCount"`
	ErrorsCount   int    `json:"errorsCount"`
}

// ProviderUsage is the per-provider slice of today's counters attached to
// the admin provider listing.
type ProviderUsage struct {
	RequestsToday int `json:"requestsToday"`
	TokensToday   int `json:"tokensToday"`
	ErrorsToday   int `json:"errorsToday"`
}

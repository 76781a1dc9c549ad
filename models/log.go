package models

import "time"

// Call statuses recorded per adapter attempt. "fallback" marks an attempt
// that succeeded after at least one earlier provider failed within the same
// call; it is distinct from "success" for attribution only, not control flow.
const (
	CallStatusSuccess  = "success"
	CallStatusError    = "error"
	CallStatusFallback = "fallback"
)

// PreviewLimit is the maximum stored length of request/response previews.
const PreviewLimit = 500

// LogEntry is one immutable record of a single adapter attempt. Entries are
// append-only; the only mutation is the bulk admin "clear logs" action.
type LogEntry struct {
	ID              int64     `json:"id"`
	Timestamp       time.Time `json:"timestamp"`
	ProviderID      string    `json:"providerId"`
	FunctionName    string    `json:"functionName"`
	Status          string    `json:"status"`
	DurationMs      int       `json:"durationMs"`
	TokensUsed      int       `json:"tokensUsed"`
	ErrorMessage    *string   `json:"errorMessage,omitempty"`
	RequestPreview  *string   `json:"requestPreview,omitempty"`
	ResponsePreview *string   `json:"responsePreview,omitempty"`
}

// LogFilter narrows a log listing. Zero values mean "no filter"; Limit
// defaults are applied by the handler layer.
type LogFilter struct {
	Status       string
	ProviderID   string
	FunctionName string
	Limit        int
	Offset       int
}

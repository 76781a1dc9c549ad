package repositories

import (
	"context"

	"github.com/verdantweb/ai-router/models"
)

// ProviderRepository persists the provider registry.
type ProviderRepository interface {
	// List returns every provider ordered by ascending priority, ties
	// broken by id for a deterministic total order.
	List(ctx context.Context) ([]models.ProviderConfig, error)

	// Count returns the number of provider rows. Used for the idempotent
	// any-rows seeding check.
	Count(ctx context.Context) (int, error)

	// Insert creates a provider row. Conflicting ids are ignored so that
	// seeding stays idempotent.
	Insert(ctx context.Context, p models.ProviderConfig) error

	// Update applies a partial update; nil fields keep their prior value.
	Update(ctx context.Context, id string, update models.ProviderUpdate) error

	// Delete removes a provider row by id.
	Delete(ctx context.Context, id string) error

	// SetPriority assigns a priority to one provider, used by bulk reorder.
	SetPriority(ctx context.Context, id string, priority int) error
}

// UsageRepository persists per-provider per-day usage counters.
type UsageRepository interface {
	// IncrementDaily upserts the (providerID, date) counter row in a single
	// atomic statement: insert with initial counts or increment in place.
	IncrementDaily(ctx context.Context, providerID, date string, tokens int, isError bool) error

	// GetByDate returns all counter rows for one calendar date.
	GetByDate(ctx context.Context, date string) ([]models.UsageCounter, error)

	// ListSince returns counter rows on or after the given date, newest first.
	ListSince(ctx context.Context, date string) ([]models.UsageCounter, error)
}

// LogRepository persists the append-only call log.
type LogRepository interface {
	// Insert appends one log entry.
	Insert(ctx context.Context, entry models.LogEntry) error

	// List returns entries newest first, narrowed by the filter.
	List(ctx context.Context, filter models.LogFilter) ([]models.LogEntry, error)

	// ListAll returns every entry newest first, for export.
	ListAll(ctx context.Context) ([]models.LogEntry, error)

	// DeleteAll removes every log entry.
	DeleteAll(ctx context.Context) error
}

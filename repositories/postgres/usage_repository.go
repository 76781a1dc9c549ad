package postgres

import (
	"context"
	"fmt"

	"github.com/verdantweb/ai-router/models"
	"github.com/verdantweb/ai-router/repositories"
	"go.uber.org/zap"
)

// UsageRepository implements the repositories.UsageRepository interface
type UsageRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewUsageRepository creates a new usage repository
func NewUsageRepository(db *DB, logger *zap.Logger) repositories.UsageRepository {
	return &UsageRepository{
		db:     db,
		logger: logger,
	}
}

// IncrementDaily upserts the (provider, date) counter row. The increment
// happens inside the statement so concurrent calls never lose updates.
func (r *UsageRepository) IncrementDaily(ctx context.Context, providerID, date string, tokens int, isError bool) error {
	errInc := 0
	if isError {
		errInc = 1
	}

	query := `
		INSERT INTO ai_usage (provider_id, date, requests_count, tokens_count, errors_count)
		VALUES ($1, $2, 1, $3, $4)
		ON CONFLICT (provider_id, date) DO UPDATE
		SET requests_count = ai_usage.requests_count + 1,
		    tokens_count = ai_usage.tokens_count + $3,
		    errors_count = ai_usage.errors_count + $4
	`

	if _, err := r.db.ExecContext(ctx, query, providerID, date, tokens, errInc); err != nil {
		return fmt.Errorf("failed to increment usage: %w", err)
	}

	r.logger.Debug("usage incremented",
		zap.String("provider_id", providerID),
		zap.String("date", date),
		zap.Int("tokens", tokens))
	return nil
}

// GetByDate returns all counter rows for one calendar date
func (r *UsageRepository) GetByDate(ctx context.Context, date string) ([]models.UsageCounter, error) {
	query := `
		SELECT id, provider_id, date, requests_count, tokens_count, errors_count
		FROM ai_usage
		WHERE date = $1
	`

	return r.queryCounters(ctx, query, date)
}

// ListSince returns counter rows on or after the given date, newest first
func (r *UsageRepository) ListSince(ctx context.Context, date string) ([]models.UsageCounter, error) {
	query := `
		SELECT id, provider_id, date, requests_count, tokens_count, errors_count
		FROM ai_usage
		WHERE date >= $1
		ORDER BY date DESC, provider_id ASC
	`

	return r.queryCounters(ctx, query, date)
}

func (r *UsageRepository) queryCounters(ctx context.Context, query string, args ...interface{}) ([]models.UsageCounter, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage: %w", err)
	}
	defer rows.Close()

	var counters []models.UsageCounter
	for rows.Next() {
		var c models.UsageCounter
		if err := rows.Scan(&c.ID, &c.ProviderID, &c.Date, &c.RequestsCount, &c.TokensCount, &c.ErrorsCount); err != nil {
			return nil, fmt.Errorf("failed to scan usage row: %w", err)
		}
		counters = append(counters, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating usage rows: %w", err)
	}

	return counters, nil
}

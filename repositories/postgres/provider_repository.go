package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/verdantweb/ai-router/models"
	"github.com/verdantweb/ai-router/repositories"
	"go.uber.org/zap"
)

// ProviderRepository implements the repositories.ProviderRepository interface
type ProviderRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewProviderRepository creates a new provider repository
func NewProviderRepository(db *DB, logger *zap.Logger) repositories.ProviderRepository {
	return &ProviderRepository{
		db:     db,
		logger: logger,
	}
}

const providerColumns = `id, name, enabled, priority, endpoint, model, api_key_env_var,
		       requests_per_minute, requests_per_day, tokens_per_minute, created_at, updated_at`

// List returns all providers ordered by ascending priority, id as tiebreak
func (r *ProviderRepository) List(ctx context.Context) ([]models.ProviderConfig, error) {
	query := `
		SELECT ` + providerColumns + `
		FROM ai_providers
		ORDER BY priority ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query providers: %w", err)
	}
	defer rows.Close()

	var providers []models.ProviderConfig
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan provider: %w", err)
		}
		providers = append(providers, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating provider rows: %w", err)
	}

	return providers, nil
}

// Count returns the number of provider rows
func (r *ProviderRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ai_providers`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count providers: %w", err)
	}
	return count, nil
}

// Insert creates a provider row; existing ids are left untouched so that
// seeding can be retried safely.
func (r *ProviderRepository) Insert(ctx context.Context, p models.ProviderConfig) error {
	query := `
		INSERT INTO ai_providers (
			id, name, enabled, priority, endpoint, model, api_key_env_var,
			requests_per_minute, requests_per_day, tokens_per_minute
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Enabled,
		p.Priority,
		p.Endpoint,
		p.Model,
		p.APIKeyEnvVar,
		p.Limits.RequestsPerMinute,
		p.Limits.RequestsPerDay,
		p.Limits.TokensPerMinute,
	)

	if err != nil {
		return fmt.Errorf("failed to insert provider: %w", err)
	}

	r.logger.Debug("provider inserted", zap.String("id", p.ID))
	return nil
}

// Update applies a partial update; nil fields retain their prior value
func (r *ProviderRepository) Update(ctx context.Context, id string, update models.ProviderUpdate) error {
	query := `
		UPDATE ai_providers
		SET name = COALESCE($2, name),
		    enabled = COALESCE($3, enabled),
		    priority = COALESCE($4, priority),
		    endpoint = COALESCE($5, endpoint),
		    model = COALESCE($6, model),
		    api_key_env_var = COALESCE($7, api_key_env_var),
		    requests_per_minute = COALESCE($8, requests_per_minute),
		    requests_per_day = COALESCE($9, requests_per_day),
		    tokens_per_minute = COALESCE($10, tokens_per_minute),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		id,
		update.Name,
		update.Enabled,
		update.Priority,
		update.Endpoint,
		update.Model,
		update.APIKeyEnvVar,
		update.RequestsPerMinute,
		update.RequestsPerDay,
		update.TokensPerMinute,
	)

	if err != nil {
		return fmt.Errorf("failed to update provider: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("provider not found: %s", id)
	}

	r.logger.Debug("provider updated", zap.String("id", id))
	return nil
}

// Delete removes a provider row by id
func (r *ProviderRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM ai_providers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete provider: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("provider not found: %s", id)
	}

	r.logger.Debug("provider deleted", zap.String("id", id))
	return nil
}

// SetPriority assigns a priority to one provider
func (r *ProviderRepository) SetPriority(ctx context.Context, id string, priority int) error {
	query := `
		UPDATE ai_providers
		SET priority = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, priority)
	if err != nil {
		return fmt.Errorf("failed to set provider priority: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("provider not found: %s", id)
	}

	return nil
}

// scanProvider scans one provider row from either *sql.Row or *sql.Rows
func scanProvider(row interface {
	Scan(dest ...interface{}) error
}) (models.ProviderConfig, error) {
	var p models.ProviderConfig
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Enabled,
		&p.Priority,
		&p.Endpoint,
		&p.Model,
		&p.APIKeyEnvVar,
		&p.Limits.RequestsPerMinute,
		&p.Limits.RequestsPerDay,
		&p.Limits.TokensPerMinute,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return models.ProviderConfig{}, err
	}

	if createdAt.Valid {
		p.CreatedAt = createdAt.Time
	} else {
		p.CreatedAt = time.Time{}
	}
	if updatedAt.Valid {
		p.UpdatedAt = updatedAt.Time
	}

	return p, nil
}

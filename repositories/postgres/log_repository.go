package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/verdantweb/ai-router/models"
	"github.com/verdantweb/ai-router/repositories"
	"go.uber.org/zap"
)

// LogRepository implements the repositories.LogRepository interface
type LogRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewLogRepository creates a new log repository
func NewLogRepository(db *DB, logger *zap.Logger) repositories.LogRepository {
	return &LogRepository{
		db:     db,
		logger: logger,
	}
}

const logColumns = `id, timestamp, provider_id, function_name, status, duration_ms,
		       tokens_used, error_message, request_preview, response_preview`

// Insert appends one log entry
func (r *LogRepository) Insert(ctx context.Context, entry models.LogEntry) error {
	query := `
		INSERT INTO ai_logs (
			provider_id, function_name, status, duration_ms, tokens_used,
			error_message, request_preview, response_preview
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ProviderID,
		entry.FunctionName,
		entry.Status,
		entry.DurationMs,
		entry.TokensUsed,
		entry.ErrorMessage,
		entry.RequestPreview,
		entry.ResponsePreview,
	)

	if err != nil {
		return fmt.Errorf("failed to insert log entry: %w", err)
	}

	r.logger.Debug("log entry inserted",
		zap.String("provider_id", entry.ProviderID),
		zap.String("status", entry.Status))
	return nil
}

// List returns entries newest first, narrowed by the filter
func (r *LogRepository) List(ctx context.Context, filter models.LogFilter) ([]models.LogEntry, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + logColumns + ` FROM ai_logs`)

	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, "status = $"+strconv.Itoa(len(args)))
	}
	if filter.ProviderID != "" {
		args = append(args, filter.ProviderID)
		conditions = append(conditions, "provider_id = $"+strconv.Itoa(len(args)))
	}
	if filter.FunctionName != "" {
		args = append(args, filter.FunctionName)
		conditions = append(conditions, "function_name = $"+strconv.Itoa(len(args)))
	}

	if len(conditions) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}

	sb.WriteString(" ORDER BY timestamp DESC, id DESC")

	args = append(args, filter.Limit)
	sb.WriteString(" LIMIT $" + strconv.Itoa(len(args)))
	args = append(args, filter.Offset)
	sb.WriteString(" OFFSET $" + strconv.Itoa(len(args)))

	return r.queryEntries(ctx, sb.String(), args...)
}

// ListAll returns every entry newest first, for export
func (r *LogRepository) ListAll(ctx context.Context) ([]models.LogEntry, error) {
	query := `SELECT ` + logColumns + ` FROM ai_logs ORDER BY timestamp DESC, id DESC`
	return r.queryEntries(ctx, query)
}

// DeleteAll removes every log entry
func (r *LogRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM ai_logs`); err != nil {
		return fmt.Errorf("failed to clear logs: %w", err)
	}

	r.logger.Info("call logs cleared")
	return nil
}

func (r *LogRepository) queryEntries(ctx context.Context, query string, args ...interface{}) ([]models.LogEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query logs: %w", err)
	}
	defer rows.Close()

	var entries []models.LogEntry
	for rows.Next() {
		var e models.LogEntry
		err := rows.Scan(
			&e.ID,
			&e.Timestamp,
			&e.ProviderID,
			&e.FunctionName,
			&e.Status,
			&e.DurationMs,
			&e.TokensUsed,
			&e.ErrorMessage,
			&e.RequestPreview,
			&e.ResponsePreview,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan log row: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating log rows: %w", err)
	}

	return entries, nil
}

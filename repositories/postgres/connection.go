package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/verdantweb/ai-router/config"
	"go.uber.org/zap"
)

// DB wraps the sql.DB connection pool
type DB struct {
	*sql.DB
	logger *zap.Logger
}

// NewDB creates a new database connection pool
func NewDB(cfg config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	dsn := cfg.DSN()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established",
		zap.String("connection", cfg.LogString()))

	return &DB{
		DB:     db,
		logger: logger,
	}, nil
}

// Close closes the database connection pool
func (db *DB) Close() error {
	db.logger.Info("closing database connection")
	return db.DB.Close()
}

// HealthCheck performs a health check on the database
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	var result int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database query check failed: %w", err)
	}

	return nil
}

// InitSchema initializes the database schema
func (db *DB) InitSchema(ctx context.Context) error {
	schema := `
		-- Provider registry
		CREATE TABLE IF NOT EXISTS ai_providers (
			id VARCHAR(100) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			enabled BOOLEAN NOT NULL DEFAULT true,
			priority INTEGER NOT NULL DEFAULT 99,
			endpoint TEXT NOT NULL DEFAULT '',
			model VARCHAR(255) NOT NULL DEFAULT '',
			api_key_env_var VARCHAR(255) NOT NULL DEFAULT '',
			requests_per_minute INTEGER NOT NULL DEFAULT 15,
			requests_per_day INTEGER NOT NULL DEFAULT 1500,
			tokens_per_minute INTEGER NOT NULL DEFAULT 1000000,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Per-provider, per-day usage counters
		CREATE TABLE IF NOT EXISTS ai_usage (
			id BIGSERIAL PRIMARY KEY,
			provider_id VARCHAR(100) NOT NULL,
			date VARCHAR(10) NOT NULL,
			requests_count INTEGER NOT NULL DEFAULT 0,
			tokens_count INTEGER NOT NULL DEFAULT 0,
			errors_count INTEGER NOT NULL DEFAULT 0,
			UNIQUE (provider_id, date)
		);

		-- Append-only call log, one row per adapter attempt
		CREATE TABLE IF NOT EXISTS ai_logs (
			id BIGSERIAL PRIMARY KEY,
			timestamp TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			provider_id VARCHAR(100) NOT NULL,
			function_name VARCHAR(255) NOT NULL,
			status VARCHAR(20) NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			tokens_used INTEGER NOT NULL DEFAULT 0,
			error_message TEXT,
			request_preview VARCHAR(500),
			response_preview VARCHAR(500)
		);

		-- Indexes for the admin log listing filters
		CREATE INDEX IF NOT EXISTS idx_ai_logs_timestamp ON ai_logs(timestamp);
		CREATE INDEX IF NOT EXISTS idx_ai_logs_provider_id ON ai_logs(provider_id);
		CREATE INDEX IF NOT EXISTS idx_ai_logs_status ON ai_logs(status);
		CREATE INDEX IF NOT EXISTS idx_ai_usage_date ON ai_usage(date);
		CREATE INDEX IF NOT EXISTS idx_ai_providers_priority ON ai_providers(priority);
	`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	db.logger.Info("database schema initialized successfully")
	return nil
}

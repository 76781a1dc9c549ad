package recorder

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/verdantweb/ai-router/models"
	"github.com/verdantweb/ai-router/repositories"
	"go.uber.org/zap"
)

// Attempt describes one adapter invocation to be recorded
type Attempt struct {
	ProviderID   string
	FunctionName string
	Status       string
	Duration     time.Duration
	TokensUsed   int
	Err          error
	Request      string
	Response     string
}

// Service writes the call log and daily usage counters. Recording is
// best-effort: callers log and drop the returned error so an observability
// outage never fails a generation that already succeeded.
type Service struct {
	logs   repositories.LogRepository
	usage  repositories.UsageRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new recorder service
func NewService(logs repositories.LogRepository, usage repositories.UsageRepository, logger *zap.Logger) *Service {
	return &Service{
		logs:   logs,
		usage:  usage,
		logger: logger,
		now:    time.Now,
	}
}

// Record persists one attempt as a log row and folds it into the daily
// usage counters for the provider.
func (s *Service) Record(ctx context.Context, attempt Attempt) error {
	entry := models.LogEntry{
		ProviderID:   attempt.ProviderID,
		FunctionName: attempt.FunctionName,
		Status:       attempt.Status,
		DurationMs:   int(attempt.Duration.Milliseconds()),
		TokensUsed:   attempt.TokensUsed,
	}

	if attempt.Err != nil {
		msg := attempt.Err.Error()
		entry.ErrorMessage = &msg
	}
	if attempt.Request != "" {
		preview := truncate(attempt.Request, models.PreviewLimit)
		entry.RequestPreview = &preview
	}
	if attempt.Response != "" {
		preview := truncate(attempt.Response, models.PreviewLimit)
		entry.ResponsePreview = &preview
	}

	if err := s.logs.Insert(ctx, entry); err != nil {
		return fmt.Errorf("failed to record call log: %w", err)
	}

	date := s.now().UTC().Format("2006-01-02")
	isError := attempt.Status == models.CallStatusError
	if err := s.usage.IncrementDaily(ctx, attempt.ProviderID, date, attempt.TokensUsed, isError); err != nil {
		return fmt.Errorf("failed to record usage: %w", err)
	}

	return nil
}

// truncate cuts s to at most limit bytes without splitting a rune, so the
// stored preview stays valid UTF-8 for Postgres.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

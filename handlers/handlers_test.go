package handlers

import (
	"context"
	"errors"

	"github.com/verdantweb/ai-router/models"
	"github.com/verdantweb/ai-router/services/orchestrator"
)

// Shared in-memory stubs for handler tests.

type stubRegistry struct {
	providers  []models.ProviderConfig
	seedErr    error
	createErr  error
	updateErr  error
	deleteErr  error
	reorderErr error
	reordered  []string
	created    []models.ProviderConfig
	updates    map[string]models.ProviderUpdate
	seeded     bool
}

func (s *stubRegistry) List(ctx context.Context) []models.ProviderConfig {
	return s.providers
}

func (s *stubRegistry) EnsureSeeded(ctx context.Context) error {
	if s.seedErr != nil {
		return s.seedErr
	}
	s.seeded = true
	return nil
}

func (s *stubRegistry) Create(ctx context.Context, p models.ProviderConfig) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, p)
	return nil
}

func (s *stubRegistry) Update(ctx context.Context, id string, update models.ProviderUpdate) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	if s.updates == nil {
		s.updates = make(map[string]models.ProviderUpdate)
	}
	s.updates[id] = update
	return nil
}

func (s *stubRegistry) Delete(ctx context.Context, id string) error {
	return s.deleteErr
}

func (s *stubRegistry) Reorder(ctx context.Context, ids []string) error {
	if s.reorderErr != nil {
		return s.reorderErr
	}
	s.reordered = ids
	return nil
}

type stubOrchestrator struct {
	result     *orchestrator.Result
	callErr    error
	lastPrompt string
	lastFunc   string
	lastTokens int
	lastTemp   *float64
	testResult orchestrator.TestResult
	health     map[string]orchestrator.TestResult
}

func (s *stubOrchestrator) CallWithFallback(ctx context.Context, prompt, functionName string, maxTokens int, temperature *float64) (*orchestrator.Result, error) {
	s.lastPrompt = prompt
	s.lastFunc = functionName
	s.lastTokens = maxTokens
	s.lastTemp = temperature
	if s.callErr != nil {
		return nil, s.callErr
	}
	return s.result, nil
}

func (s *stubOrchestrator) TestProvider(ctx context.Context, providerID string) orchestrator.TestResult {
	return s.testResult
}

func (s *stubOrchestrator) HealthCheck(ctx context.Context) map[string]orchestrator.TestResult {
	return s.health
}

type stubUsageRepo struct {
	counters []models.UsageCounter
	err      error
}

func (s *stubUsageRepo) IncrementDaily(ctx context.Context, providerID, date string, tokens int, isError bool) error {
	return nil
}

func (s *stubUsageRepo) GetByDate(ctx context.Context, date string) ([]models.UsageCounter, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.counters, nil
}

func (s *stubUsageRepo) ListSince(ctx context.Context, date string) ([]models.UsageCounter, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.counters, nil
}

type stubLogRepo struct {
	entries    []models.LogEntry
	listErr    error
	deleteErr  error
	lastFilter models.LogFilter
	cleared    bool
}

func (s *stubLogRepo) Insert(ctx context.Context, entry models.LogEntry) error {
	s.entries = append(s.entries, entry)
	return nil
}

func (s *stubLogRepo) List(ctx context.Context, filter models.LogFilter) ([]models.LogEntry, error) {
	s.lastFilter = filter
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.entries, nil
}

func (s *stubLogRepo) ListAll(ctx context.Context) ([]models.LogEntry, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.entries, nil
}

func (s *stubLogRepo) DeleteAll(ctx context.Context) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.cleared = true
	s.entries = nil
	return nil
}

type stubPinger struct {
	err error
}

func (s *stubPinger) HealthCheck(ctx context.Context) error {
	return s.err
}

var errNotFound = errors.New("provider not found: ghost")

package orchestrator

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/verdantweb/ai-router/models"
	"github.com/verdantweb/ai-router/services/providers"
	"github.com/verdantweb/ai-router/services/recorder"
	"go.uber.org/zap"
)

const (
	// DefaultMaxTokens applies when the caller passes 0
	DefaultMaxTokens = 4096

	// DefaultTemperature applies when the caller passes nil; an explicit
	// 0 is a valid temperature and passes through as-is
	DefaultTemperature = 0.7

	// Canned connectivity test parameters
	testPrompt      = "Say 'Hello' in exactly one word."
	testMaxTokens   = 50
	testTemperature = 0.1
)

// Registry supplies the provider snapshot for each call
type Registry interface {
	List(ctx context.Context) []models.ProviderConfig
}

// Recorder persists one attempt record
type Recorder interface {
	Record(ctx context.Context, attempt recorder.Attempt) error
}

// Result is the outcome of a successful fallback chain
type Result struct {
	Text       string `json:"text"`
	ProviderID string `json:"provider"`
	DurationMs int    `json:"durationMs"`
	TokensUsed int    `json:"tokensUsed"`
}

// TestResult reports one direct connectivity test
type TestResult struct {
	ProviderID string `json:"provider"`
	Success    bool   `json:"success"`
	DurationMs int    `json:"durationMs"`
	Response   string `json:"response,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Service runs the fallback chain: a fresh registry snapshot per call,
// enabled providers in ascending priority, sequential attempts, first
// success wins.
type Service struct {
	registry    Registry
	recorder    Recorder
	adapters    map[string]providers.Adapter
	callTimeout time.Duration
	logger      *zap.Logger
}

// NewService creates a new orchestrator. Adapters are keyed by registry
// provider id; a registry row with no matching adapter is skipped.
func NewService(reg Registry, rec Recorder, adapters map[string]providers.Adapter, callTimeout time.Duration, logger *zap.Logger) *Service {
	return &Service{
		registry:    reg,
		recorder:    rec,
		adapters:    adapters,
		callTimeout: callTimeout,
		logger:      logger,
	}
}

// CallWithFallback tries every enabled provider in priority order until one
// returns text. maxTokens and temperature pass through unchanged to every
// provider tried within the call; a zero maxTokens and a nil temperature
// take the defaults.
func (s *Service) CallWithFallback(ctx context.Context, prompt, functionName string, maxTokens int, temperature *float64) (*Result, error) {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	temp := DefaultTemperature
	if temperature != nil {
		temp = *temperature
	}

	callID := uuid.NewString()
	log := s.logger.With(
		zap.String("call_id", callID),
		zap.String("function", functionName))

	candidates := s.snapshot(ctx)
	req := providers.Request{
		Prompt:      prompt,
		MaxTokens:   maxTokens,
		Temperature: temp,
	}

	var lastErr error
	attempts := 0

	for _, provider := range candidates {
		adapter, ok := s.adapters[provider.ID]
		if !ok {
			log.Warn("no adapter registered for provider, skipping",
				zap.String("provider", provider.ID))
			continue
		}

		attempts++
		start := time.Now()
		text, err := s.invoke(ctx, adapter, provider, req)
		duration := time.Since(start)

		if err != nil {
			log.Warn("provider attempt failed",
				zap.String("provider", provider.ID),
				zap.Duration("duration", duration),
				zap.Error(err))

			s.record(ctx, recorder.Attempt{
				ProviderID:   provider.ID,
				FunctionName: functionName,
				Status:       models.CallStatusError,
				Duration:     duration,
				Err:          err,
				Request:      prompt,
			})

			lastErr = err
			continue
		}

		status := models.CallStatusSuccess
		if lastErr != nil {
			status = models.CallStatusFallback
		}
		tokens := EstimateTokens(text)

		log.Info("provider call succeeded",
			zap.String("provider", provider.ID),
			zap.String("status", status),
			zap.Duration("duration", duration),
			zap.Int("tokens", tokens))

		s.record(ctx, recorder.Attempt{
			ProviderID:   provider.ID,
			FunctionName: functionName,
			Status:       status,
			Duration:     duration,
			TokensUsed:   tokens,
			Request:      prompt,
			Response:     text,
		})

		return &Result{
			Text:       text,
			ProviderID: provider.ID,
			DurationMs: int(duration.Milliseconds()),
			TokensUsed: tokens,
		}, nil
	}

	log.Error("all providers exhausted",
		zap.Int("attempts", attempts),
		zap.Error(lastErr))

	return nil, &ExhaustionError{Attempts: attempts, LastErr: lastErr}
}

// TestProvider sends the canned connectivity prompt straight to one
// provider's adapter, bypassing the fallback chain. Disabled providers can
// be tested too so admins can verify configuration before enabling them.
func (s *Service) TestProvider(ctx context.Context, providerID string) TestResult {
	result := TestResult{ProviderID: providerID}

	var target *models.ProviderConfig
	for _, p := range s.registry.List(ctx) {
		if p.ID == providerID {
			target = &p
			break
		}
	}
	if target == nil {
		result.Error = "provider not found: " + providerID
		return result
	}

	adapter, ok := s.adapters[providerID]
	if !ok {
		result.Error = "no adapter registered for provider: " + providerID
		return result
	}

	req := providers.Request{
		Prompt:      testPrompt,
		MaxTokens:   testMaxTokens,
		Temperature: testTemperature,
	}

	start := time.Now()
	text, err := s.invoke(ctx, adapter, *target, req)
	result.DurationMs = int(time.Since(start).Milliseconds())

	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Success = true
	result.Response = text
	return result
}

// HealthCheck runs the connectivity test for every enabled provider and
// returns a per-provider result map. Individual failures never fail the
// check itself.
func (s *Service) HealthCheck(ctx context.Context) map[string]TestResult {
	results := make(map[string]TestResult)
	for _, p := range s.registry.List(ctx) {
		if !p.Enabled {
			continue
		}
		results[p.ID] = s.TestProvider(ctx, p.ID)
	}
	return results
}

// snapshot reads the registry once and returns the enabled providers in
// strictly ascending priority order. Concurrent admin edits never affect
// an in-flight call.
func (s *Service) snapshot(ctx context.Context) []models.ProviderConfig {
	all := s.registry.List(ctx)

	enabled := make([]models.ProviderConfig, 0, len(all))
	for _, p := range all {
		if p.Enabled {
			enabled = append(enabled, p)
		}
	}

	sort.SliceStable(enabled, func(i, j int) bool {
		if enabled[i].Priority != enabled[j].Priority {
			return enabled[i].Priority < enabled[j].Priority
		}
		return enabled[i].ID < enabled[j].ID
	})

	return enabled
}

// invoke bounds one adapter call with the per-attempt timeout so a slow
// provider cannot stall the whole chain.
func (s *Service) invoke(ctx context.Context, adapter providers.Adapter, provider models.ProviderConfig, req providers.Request) (string, error) {
	if s.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.callTimeout)
		defer cancel()
	}
	return adapter.Generate(ctx, provider, req)
}

// record persists one attempt. Recorder failures are logged and dropped so
// observability problems never fail a call that already has its answer.
func (s *Service) record(ctx context.Context, attempt recorder.Attempt) {
	if err := s.recorder.Record(ctx, attempt); err != nil {
		s.logger.Error("failed to record call attempt",
			zap.String("provider", attempt.ProviderID),
			zap.Error(err))
	}
}

// EstimateTokens approximates token usage as one token per four characters,
// rounded up. A rough proxy, not a tokenizer.
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}

package app

import (
	"context"
	"fmt"

	"github.com/verdantweb/ai-router/config"
	"github.com/verdantweb/ai-router/handlers"
	"github.com/verdantweb/ai-router/repositories"
	"github.com/verdantweb/ai-router/repositories/postgres"
	"github.com/verdantweb/ai-router/services/orchestrator"
	"github.com/verdantweb/ai-router/services/providers"
	"github.com/verdantweb/ai-router/services/providers/cloudflare"
	"github.com/verdantweb/ai-router/services/providers/gemini"
	"github.com/verdantweb/ai-router/services/providers/openai"
	"github.com/verdantweb/ai-router/services/providers/openrouter"
	"github.com/verdantweb/ai-router/services/recorder"
	"github.com/verdantweb/ai-router/services/registry"
	"go.uber.org/zap"
)

// Dependencies is the central wiring point for dependency injection
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repositories
	Providers repositories.ProviderRepository
	Usage     repositories.UsageRepository
	Logs      repositories.LogRepository

	// Services
	Registry     *registry.Service
	Recorder     *recorder.Service
	Orchestrator *orchestrator.Service
	Adapters     map[string]providers.Adapter

	// Handlers
	ProviderHandler *handlers.ProviderHandler
	LogHandler      *handlers.LogHandler
	GenerateHandler *handlers.GenerateHandler
	HealthHandler   *handlers.HealthHandler
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	db, err := postgres.NewDB(cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	deps.DB = db

	if err := db.InitSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	deps.Providers = postgres.NewProviderRepository(db, logger)
	deps.Usage = postgres.NewUsageRepository(db, logger)
	deps.Logs = postgres.NewLogRepository(db, logger)

	deps.Registry = registry.NewService(deps.Providers, logger)
	deps.Recorder = recorder.NewService(deps.Logs, deps.Usage, logger)

	// One adapter per known provider id. A registry row with no adapter
	// here is skipped by the fallback loop.
	deps.Adapters = map[string]providers.Adapter{
		"gemini":     gemini.NewAdapter(),
		"openrouter": openrouter.NewAdapter(nil, cfg.Router.OpenRouterReferer),
		"cloudflare": cloudflare.NewAdapter(nil),
		"openai":     openai.NewAdapter(),
	}

	deps.Orchestrator = orchestrator.NewService(
		deps.Registry,
		deps.Recorder,
		deps.Adapters,
		cfg.Router.CallTimeout,
		logger,
	)

	if err := deps.Registry.EnsureSeeded(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed provider registry: %w", err)
	}

	deps.ProviderHandler = handlers.NewProviderHandler(deps.Registry, deps.Usage, deps.Orchestrator, logger)
	deps.LogHandler = handlers.NewLogHandler(deps.Logs, logger)
	deps.GenerateHandler = handlers.NewGenerateHandler(deps.Orchestrator, logger)
	deps.HealthHandler = handlers.NewHealthHandler(db, logger)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// Close releases held resources
func (d *Dependencies) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}

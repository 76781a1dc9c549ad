package registry

import (
	"context"
	"fmt"

	"github.com/verdantweb/ai-router/models"
	"github.com/verdantweb/ai-router/repositories"
	"go.uber.org/zap"
)

// Service manages the provider registry. Every read goes to the database
// so admin edits apply to the very next call, with the built-in defaults
// as a degraded-mode fallback when the database is unreachable.
type Service struct {
	repo   repositories.ProviderRepository
	logger *zap.Logger
}

// NewService creates a new registry service
func NewService(repo repositories.ProviderRepository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// List returns all providers ordered by ascending priority. On a database
// error it logs and falls back to the default set rather than failing the
// caller's generation request.
func (s *Service) List(ctx context.Context) []models.ProviderConfig {
	providers, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Warn("provider registry read failed, using defaults", zap.Error(err))
		return defaultsCopy()
	}
	if len(providers) == 0 {
		return defaultsCopy()
	}
	return providers
}

// EnsureSeeded inserts the default providers when the registry is empty.
// The check is any-rows: once an admin has touched the registry, even
// deleting some defaults, seeding never reintroduces them.
func (s *Service) EnsureSeeded(ctx context.Context) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to check registry state: %w", err)
	}

	if count > 0 {
		s.logger.Debug("provider registry already seeded", zap.Int("providers", count))
		return nil
	}

	for _, p := range DefaultProviders {
		if err := s.repo.Insert(ctx, p); err != nil {
			return fmt.Errorf("failed to seed provider %s: %w", p.ID, err)
		}
	}

	s.logger.Info("provider registry seeded", zap.Int("providers", len(DefaultProviders)))
	return nil
}

// Create adds a provider to the registry
func (s *Service) Create(ctx context.Context, p models.ProviderConfig) error {
	if err := s.repo.Insert(ctx, p); err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}

	s.logger.Info("provider created", zap.String("id", p.ID))
	return nil
}

// Update applies a partial update to one provider
func (s *Service) Update(ctx context.Context, id string, update models.ProviderUpdate) error {
	if update.Empty() {
		return fmt.Errorf("update contains no fields")
	}

	if err := s.repo.Update(ctx, id, update); err != nil {
		return err
	}

	s.logger.Info("provider updated", zap.String("id", id))
	return nil
}

// Delete removes one provider from the registry
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("provider deleted", zap.String("id", id))
	return nil
}

// Reorder assigns priorities from the given id order: the first id gets
// priority 1, the second 2 and so on.
func (s *Service) Reorder(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("reorder requires at least one provider id")
	}

	for i, id := range ids {
		if err := s.repo.SetPriority(ctx, id, i+1); err != nil {
			return fmt.Errorf("failed to reorder provider %s: %w", id, err)
		}
	}

	s.logger.Info("providers reordered", zap.Strings("order", ids))
	return nil
}

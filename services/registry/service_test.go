package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verdantweb/ai-router/models"
	"go.uber.org/zap"
)

// stubProviderRepo implements repositories.ProviderRepository in memory
type stubProviderRepo struct {
	providers  []models.ProviderConfig
	listErr    error
	countErr   error
	insertErr  error
	priorities map[string]int
}

func (s *stubProviderRepo) List(ctx context.Context) ([]models.ProviderConfig, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.providers, nil
}

func (s *stubProviderRepo) Count(ctx context.Context) (int, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	return len(s.providers), nil
}

func (s *stubProviderRepo) Insert(ctx context.Context, p models.ProviderConfig) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	for _, existing := range s.providers {
		if existing.ID == p.ID {
			return nil
		}
	}
	s.providers = append(s.providers, p)
	return nil
}

func (s *stubProviderRepo) Update(ctx context.Context, id string, update models.ProviderUpdate) error {
	for i := range s.providers {
		if s.providers[i].ID == id {
			if update.Enabled != nil {
				s.providers[i].Enabled = *update.Enabled
			}
			if update.Model != nil {
				s.providers[i].Model = *update.Model
			}
			return nil
		}
	}
	return errors.New("provider not found: " + id)
}

func (s *stubProviderRepo) Delete(ctx context.Context, id string) error {
	for i := range s.providers {
		if s.providers[i].ID == id {
			s.providers = append(s.providers[:i], s.providers[i+1:]...)
			return nil
		}
	}
	return errors.New("provider not found: " + id)
}

func (s *stubProviderRepo) SetPriority(ctx context.Context, id string, priority int) error {
	if s.priorities == nil {
		s.priorities = make(map[string]int)
	}
	for i := range s.providers {
		if s.providers[i].ID == id {
			s.providers[i].Priority = priority
			s.priorities[id] = priority
			return nil
		}
	}
	return errors.New("provider not found: " + id)
}

func TestService_List(t *testing.T) {
	t.Run("returns database rows", func(t *testing.T) {
		repo := &stubProviderRepo{providers: []models.ProviderConfig{
			{ID: "custom", Priority: 1},
		}}
		svc := NewService(repo, zap.NewNop())

		providers := svc.List(context.Background())
		require.Len(t, providers, 1)
		assert.Equal(t, "custom", providers[0].ID)
	})

	t.Run("falls back to defaults on database error", func(t *testing.T) {
		repo := &stubProviderRepo{listErr: errors.New("connection refused")}
		svc := NewService(repo, zap.NewNop())

		providers := svc.List(context.Background())
		require.Len(t, providers, len(DefaultProviders))
		assert.Equal(t, "gemini", providers[0].ID)
		assert.Equal(t, 1, providers[0].Priority)
	})

	t.Run("falls back to defaults when registry empty", func(t *testing.T) {
		svc := NewService(&stubProviderRepo{}, zap.NewNop())

		providers := svc.List(context.Background())
		require.Len(t, providers, len(DefaultProviders))
	})
}

func TestService_EnsureSeeded(t *testing.T) {
	t.Run("seeds empty registry", func(t *testing.T) {
		repo := &stubProviderRepo{}
		svc := NewService(repo, zap.NewNop())

		require.NoError(t, svc.EnsureSeeded(context.Background()))
		assert.Len(t, repo.providers, len(DefaultProviders))
	})

	t.Run("leaves non-empty registry alone", func(t *testing.T) {
		repo := &stubProviderRepo{providers: []models.ProviderConfig{
			{ID: "gemini"},
		}}
		svc := NewService(repo, zap.NewNop())

		require.NoError(t, svc.EnsureSeeded(context.Background()))
		assert.Len(t, repo.providers, 1)
	})

	t.Run("idempotent across repeated calls", func(t *testing.T) {
		repo := &stubProviderRepo{}
		svc := NewService(repo, zap.NewNop())

		require.NoError(t, svc.EnsureSeeded(context.Background()))
		require.NoError(t, svc.EnsureSeeded(context.Background()))
		assert.Len(t, repo.providers, len(DefaultProviders))
	})

	t.Run("propagates count error", func(t *testing.T) {
		repo := &stubProviderRepo{countErr: errors.New("connection refused")}
		svc := NewService(repo, zap.NewNop())

		assert.Error(t, svc.EnsureSeeded(context.Background()))
	})
}

func TestService_Update(t *testing.T) {
	repo := &stubProviderRepo{providers: []models.ProviderConfig{{ID: "gemini", Enabled: true}}}
	svc := NewService(repo, zap.NewNop())

	t.Run("rejects empty update", func(t *testing.T) {
		err := svc.Update(context.Background(), "gemini", models.ProviderUpdate{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no fields")
	})

	t.Run("applies partial update", func(t *testing.T) {
		enabled := false
		require.NoError(t, svc.Update(context.Background(), "gemini", models.ProviderUpdate{Enabled: &enabled}))
		assert.False(t, repo.providers[0].Enabled)
	})
}

func TestService_Reorder(t *testing.T) {
	repo := &stubProviderRepo{providers: []models.ProviderConfig{
		{ID: "gemini", Priority: 1},
		{ID: "openrouter", Priority: 2},
		{ID: "openai", Priority: 3},
	}}
	svc := NewService(repo, zap.NewNop())

	require.NoError(t, svc.Reorder(context.Background(), []string{"openai", "gemini", "openrouter"}))

	assert.Equal(t, 1, repo.priorities["openai"])
	assert.Equal(t, 2, repo.priorities["gemini"])
	assert.Equal(t, 3, repo.priorities["openrouter"])

	t.Run("rejects empty order", func(t *testing.T) {
		assert.Error(t, svc.Reorder(context.Background(), nil))
	})

	t.Run("fails on unknown id", func(t *testing.T) {
		err := svc.Reorder(context.Background(), []string{"ghost"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ghost")
	})
}

func TestDefaultProviders(t *testing.T) {
	require.Len(t, DefaultProviders, 4)

	for i, p := range DefaultProviders {
		assert.Equal(t, i+1, p.Priority, "priorities are contiguous from 1")
		assert.True(t, p.Enabled)
		assert.NotEmpty(t, p.APIKeyEnvVar)
		assert.NotEmpty(t, p.Model)
		assert.NotEmpty(t, p.Endpoint)
	}

	assert.Equal(t, "gemini", DefaultProviders[0].ID)
	assert.Equal(t, "openrouter", DefaultProviders[1].ID)
	assert.Equal(t, "cloudflare", DefaultProviders[2].ID)
	assert.Equal(t, "openai", DefaultProviders[3].ID)
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/verdantweb/ai-router/models"
	"github.com/verdantweb/ai-router/repositories"
	"github.com/verdantweb/ai-router/services/orchestrator"
	"github.com/verdantweb/ai-router/utils"
	"go.uber.org/zap"
)

// CreateProviderRequest represents a request to register a provider
type CreateProviderRequest struct {
	ID           string                `json:"id" validate:"required"`
	Name         string                `json:"name" validate:"required"`
	Enabled      *bool                 `json:"enabled,omitempty"`
	Priority     int                   `json:"priority" validate:"gte=1"`
	Endpoint     string                `json:"endpoint" validate:"required"`
	Model        string                `json:"model" validate:"required"`
	APIKeyEnvVar string                `json:"apiKeyEnvVar" validate:"required"`
	Limits       models.ProviderLimits `json:"limits"`
}

// ReorderRequest supplies the full desired provider order; the first id
// receives priority 1.
type ReorderRequest struct {
	Order []string `json:"order" validate:"required,min=1"`
}

// ProviderResponse is one provider annotated with credential presence and
// today's usage. The credential value itself never leaves the process.
type ProviderResponse struct {
	models.ProviderConfig
	HasAPIKey bool                 `json:"hasApiKey"`
	Usage     models.ProviderUsage `json:"usage"`
}

// RegistryService defines the registry operations the handler needs
type RegistryService interface {
	List(ctx context.Context) []models.ProviderConfig
	EnsureSeeded(ctx context.Context) error
	Create(ctx context.Context, p models.ProviderConfig) error
	Update(ctx context.Context, id string, update models.ProviderUpdate) error
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, ids []string) error
}

// Orchestrator defines the call operations the admin surface needs
type Orchestrator interface {
	CallWithFallback(ctx context.Context, prompt, functionName string, maxTokens int, temperature *float64) (*orchestrator.Result, error)
	TestProvider(ctx context.Context, providerID string) orchestrator.TestResult
	HealthCheck(ctx context.Context) map[string]orchestrator.TestResult
}

// ProviderHandler handles the provider admin surface
type ProviderHandler struct {
	registry RegistryService
	usage    repositories.UsageRepository
	orch     Orchestrator
	logger   *zap.Logger
}

// NewProviderHandler creates a new ProviderHandler
func NewProviderHandler(registry RegistryService, usage repositories.UsageRepository, orch Orchestrator, logger *zap.Logger) *ProviderHandler {
	return &ProviderHandler{
		registry: registry,
		usage:    usage,
		orch:     orch,
		logger:   logger,
	}
}

// HandleList handles GET /providers
func (h *ProviderHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	providers := h.registry.List(ctx)

	today := time.Now().UTC().Format("2006-01-02")
	usageByProvider := make(map[string]models.ProviderUsage)
	counters, err := h.usage.GetByDate(ctx, today)
	if err != nil {
		// degraded listing is better than none; usage shows as zeros
		h.logger.Warn("failed to load today's usage", zap.Error(err))
	}
	for _, c := range counters {
		usageByProvider[c.ProviderID] = models.ProviderUsage{
			RequestsToday: c.RequestsCount,
			TokensToday:   c.TokensCount,
			ErrorsToday:   c.ErrorsCount,
		}
	}

	response := make([]ProviderResponse, 0, len(providers))
	for _, p := range providers {
		response = append(response, ProviderResponse{
			ProviderConfig: p,
			HasAPIKey:      p.APIKeyEnvVar != "" && os.Getenv(p.APIKeyEnvVar) != "",
			Usage:          usageByProvider[p.ID],
		})
	}

	_ = utils.WriteJSON(w, http.StatusOK, response)
}

// HandleCreate handles POST /providers
func (h *ProviderHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateProviderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		var ve *utils.ValidationError
		if errors.As(err, &ve) {
			_ = utils.WriteBadRequest(w, ve.Message, ve.FieldsAsDetails())
			return
		}
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	provider := models.ProviderConfig{
		ID:           req.ID,
		Name:         req.Name,
		Enabled:      enabled,
		Priority:     req.Priority,
		Endpoint:     req.Endpoint,
		Model:        req.Model,
		APIKeyEnvVar: req.APIKeyEnvVar,
		Limits:       req.Limits,
	}

	if err := h.registry.Create(r.Context(), provider); err != nil {
		h.logger.Error("failed to create provider", zap.String("id", req.ID), zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to create provider")
		return
	}

	_ = utils.WriteJSON(w, http.StatusCreated, provider)
}

// HandleUpdate handles PUT /providers/{id}
func (h *ProviderHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var update models.ProviderUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if update.Empty() {
		_ = utils.WriteBadRequest(w, "Update contains no fields", nil)
		return
	}

	if err := h.registry.Update(r.Context(), id, update); err != nil {
		if strings.Contains(err.Error(), "not found") {
			_ = utils.WriteNotFound(w, "Provider not found: "+id)
			return
		}
		h.logger.Error("failed to update provider", zap.String("id", id), zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to update provider")
		return
	}

	_ = utils.WriteJSON(w, http.StatusOK, map[string]string{"id": id, "status": "updated"})
}

// HandleDelete handles DELETE /providers/{id}
func (h *ProviderHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.registry.Delete(r.Context(), id); err != nil {
		if strings.Contains(err.Error(), "not found") {
			_ = utils.WriteNotFound(w, "Provider not found: "+id)
			return
		}
		h.logger.Error("failed to delete provider", zap.String("id", id), zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to delete provider")
		return
	}

	_ = utils.WriteJSON(w, http.StatusNoContent, nil)
}

// HandleReorder handles PUT /providers/reorder
func (h *ProviderHandler) HandleReorder(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		var ve *utils.ValidationError
		if errors.As(err, &ve) {
			_ = utils.WriteBadRequest(w, ve.Message, ve.FieldsAsDetails())
			return
		}
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return
	}

	if err := h.registry.Reorder(r.Context(), req.Order); err != nil {
		if strings.Contains(err.Error(), "not found") {
			_ = utils.WriteNotFound(w, err.Error())
			return
		}
		h.logger.Error("failed to reorder providers", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to reorder providers")
		return
	}

	_ = utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"order": req.Order})
}

// HandleTest handles POST /providers/{id}/test
func (h *ProviderHandler) HandleTest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	result := h.orch.TestProvider(r.Context(), id)
	_ = utils.WriteJSON(w, http.StatusOK, result)
}

// HandleHealthCheck handles POST /health-check: the canned connectivity
// test for every enabled provider, as a per-provider result map.
func (h *ProviderHandler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	results := h.orch.HealthCheck(r.Context())
	_ = utils.WriteJSON(w, http.StatusOK, results)
}

// HandleInit handles POST /init: idempotent seeding of the default
// provider set into an empty registry.
func (h *ProviderHandler) HandleInit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.registry.EnsureSeeded(ctx); err != nil {
		h.logger.Error("failed to seed provider registry", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to initialize providers")
		return
	}

	_ = utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"initialized": true,
		"providers":   len(h.registry.List(ctx)),
	})
}

// HandleUsage handles GET /usage?days=N
func (h *ProviderHandler) HandleUsage(w http.ResponseWriter, r *http.Request) {
	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 365 {
			_ = utils.WriteBadRequest(w, "days must be an integer between 1 and 365", nil)
			return
		}
		days = parsed
	}

	since := time.Now().UTC().AddDate(0, 0, -(days - 1)).Format("2006-01-02")
	counters, err := h.usage.ListSince(r.Context(), since)
	if err != nil {
		h.logger.Error("failed to load usage counters", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to load usage")
		return
	}
	if counters == nil {
		counters = []models.UsageCounter{}
	}

	_ = utils.WriteJSON(w, http.StatusOK, counters)
}

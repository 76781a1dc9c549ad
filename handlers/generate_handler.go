package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/verdantweb/ai-router/services/orchestrator"
	"github.com/verdantweb/ai-router/utils"
	"go.uber.org/zap"
)

// testFunctionMaxTokens is the default cap for ad-hoc admin test calls
const testFunctionMaxTokens = 500

// GenerateRequest represents a text generation request. Temperature is a
// pointer so an explicit 0 survives validation instead of reading as unset.
type GenerateRequest struct {
	Prompt       string   `json:"prompt" validate:"required"`
	FunctionName string   `json:"functionName" validate:"required"`
	MaxTokens    int      `json:"maxTokens" validate:"omitempty,gte=1"`
	Temperature  *float64 `json:"temperature" validate:"omitempty,gte=0,lte=2"`
}

// TestFunctionRequest represents an ad-hoc admin call that exercises the
// full fallback chain with a caller-supplied prompt
type TestFunctionRequest struct {
	Prompt      string   `json:"prompt" validate:"required"`
	MaxTokens   int      `json:"maxTokens" validate:"omitempty,gte=1"`
	Temperature *float64 `json:"temperature" validate:"omitempty,gte=0,lte=2"`
}

// GenerateHandler handles orchestrated generation requests
type GenerateHandler struct {
	orch   Orchestrator
	logger *zap.Logger
}

// NewGenerateHandler creates a new GenerateHandler
func NewGenerateHandler(orch Orchestrator, logger *zap.Logger) *GenerateHandler {
	return &GenerateHandler{
		orch:   orch,
		logger: logger,
	}
}

// HandleGenerate handles POST /generate
func (h *GenerateHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
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

	result, err := h.orch.CallWithFallback(r.Context(), req.Prompt, req.FunctionName, req.MaxTokens, req.Temperature)
	if err != nil {
		if orchestrator.IsExhaustionError(err) {
			_ = utils.WriteBadGateway(w, err.Error())
			return
		}
		h.logger.Error("generation failed", zap.String("function", req.FunctionName), zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Generation failed")
		return
	}

	_ = utils.WriteJSON(w, http.StatusOK, result)
}

// HandleTestFunction handles POST /test-function. Unlike the per-provider
// connectivity test this goes through the full fallback chain, so it
// exercises real routing behavior.
func (h *GenerateHandler) HandleTestFunction(w http.ResponseWriter, r *http.Request) {
	var req TestFunctionRequest
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

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = testFunctionMaxTokens
	}

	result, err := h.orch.CallWithFallback(r.Context(), req.Prompt, "testFunction", maxTokens, req.Temperature)
	if err != nil {
		if orchestrator.IsExhaustionError(err) {
			_ = utils.WriteBadGateway(w, err.Error())
			return
		}
		h.logger.Error("test function failed", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Test function failed")
		return
	}

	_ = utils.WriteJSON(w, http.StatusOK, result)
}

package handlers

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/verdantweb/ai-router/models"
	"github.com/verdantweb/ai-router/repositories"
	"github.com/verdantweb/ai-router/utils"
	"go.uber.org/zap"
)

const (
	defaultLogLimit = 100
	maxLogLimit     = 1000
)

// csvColumns is the fixed export column order
var csvColumns = []string{
	"id", "timestamp", "providerId", "functionName",
	"status", "durationMs", "tokensUsed", "errorMessage",
}

// LogHandler handles the call-log admin surface
type LogHandler struct {
	logs   repositories.LogRepository
	logger *zap.Logger
}

// NewLogHandler creates a new LogHandler
func NewLogHandler(logs repositories.LogRepository, logger *zap.Logger) *LogHandler {
	return &LogHandler{
		logs:   logs,
		logger: logger,
	}
}

// HandleList handles GET /logs with optional status/providerId/functionName
// filters and limit/offset paging.
func (h *LogHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := models.LogFilter{
		Status:       query.Get("status"),
		ProviderID:   query.Get("providerId"),
		FunctionName: query.Get("functionName"),
		Limit:        defaultLogLimit,
	}

	if filter.Status != "" {
		switch filter.Status {
		case models.CallStatusSuccess, models.CallStatusError, models.CallStatusFallback:
		default:
			_ = utils.WriteBadRequest(w, "status must be one of: success, error, fallback", nil)
			return
		}
	}

	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxLogLimit {
			_ = utils.WriteBadRequest(w, "limit must be an integer between 1 and 1000", nil)
			return
		}
		filter.Limit = parsed
	}

	if raw := query.Get("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			_ = utils.WriteBadRequest(w, "offset must be a non-negative integer", nil)
			return
		}
		filter.Offset = parsed
	}

	entries, err := h.logs.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list call logs", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to load logs")
		return
	}
	if entries == nil {
		entries = []models.LogEntry{}
	}

	_ = utils.WriteJSON(w, http.StatusOK, entries)
}

// HandleClear handles DELETE /logs. Destructive; confirmation is the
// caller's responsibility.
func (h *LogHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	if err := h.logs.DeleteAll(r.Context()); err != nil {
		h.logger.Error("failed to clear call logs", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to clear logs")
		return
	}

	_ = utils.WriteJSON(w, http.StatusNoContent, nil)
}

// HandleExport handles GET /logs/export?format=json|csv
func (h *LogHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "csv" {
		_ = utils.WriteBadRequest(w, "format must be json or csv", nil)
		return
	}

	entries, err := h.logs.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to export call logs", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to export logs")
		return
	}

	if format == "json" {
		if entries == nil {
			entries = []models.LogEntry{}
		}
		w.Header().Set("Content-Disposition", `attachment; filename="ai-logs.json"`)
		_ = utils.WriteJSON(w, http.StatusOK, entries)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="ai-logs.csv"`)

	writer := csv.NewWriter(w)
	if err := writer.Write(csvColumns); err != nil {
		h.logger.Error("failed to write csv header", zap.Error(err))
		return
	}

	for _, e := range entries {
		errMsg := ""
		if e.ErrorMessage != nil {
			errMsg = *e.ErrorMessage
		}
		record := []string{
			strconv.FormatInt(e.ID, 10),
			e.Timestamp.UTC().Format(time.RFC3339),
			e.ProviderID,
			e.FunctionName,
			e.Status,
			strconv.Itoa(e.DurationMs),
			strconv.Itoa(e.TokensUsed),
			errMsg,
		}
		if err := writer.Write(record); err != nil {
			h.logger.Error("failed to write csv row", zap.Int64("id", e.ID), zap.Error(err))
			return
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		h.logger.Error("failed to flush csv export", zap.Error(err))
	}
}

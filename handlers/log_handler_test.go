package handlers

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verdantweb/ai-router/models"
	"go.uber.org/zap"
)

func logRouter(h *LogHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/logs", h.HandleList)
	r.Delete("/logs", h.HandleClear)
	r.Get("/logs/export", h.HandleExport)
	return r
}

func sampleEntries() []models.LogEntry {
	errMsg := "provider gemini returned status 429: quota"
	return []models.LogEntry{
		{
			ID:           2,
			Timestamp:    time.Date(2026, 8, 28, 14, 5, 0, 0, time.UTC),
			ProviderID:   "openrouter",
			FunctionName: "generateHeadline",
			Status:       models.CallStatusFallback,
			DurationMs:   640,
			TokensUsed:   55,
		},
		{
			ID:           1,
			Timestamp:    time.Date(2026, 8, 28, 14, 4, 58, 0, time.UTC),
			ProviderID:   "gemini",
			FunctionName: "generateHeadline",
			Status:       models.CallStatusError,
			DurationMs:   812,
			ErrorMessage: &errMsg,
		},
	}
}

func TestLogHandler_List(t *testing.T) {
	t.Run("passes filters through", func(t *testing.T) {
		logs := &stubLogRepo{entries: sampleEntries()}
		h := NewLogHandler(logs, zap.NewNop())

		req := httptest.NewRequest(http.MethodGet, "/logs?status=error&providerId=gemini&functionName=generateHeadline&limit=50&offset=10", nil)
		rec := httptest.NewRecorder()
		logRouter(h).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, models.LogFilter{
			Status:       "error",
			ProviderID:   "gemini",
			FunctionName: "generateHeadline",
			Limit:        50,
			Offset:       10,
		}, logs.lastFilter)
	})

	t.Run("defaults the limit", func(t *testing.T) {
		logs := &stubLogRepo{}
		h := NewLogHandler(logs, zap.NewNop())

		req := httptest.NewRequest(http.MethodGet, "/logs", nil)
		rec := httptest.NewRecorder()
		logRouter(h).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, defaultLogLimit, logs.lastFilter.Limit)
		assert.Equal(t, "[]", rec.Body.String()[:2], "empty result is a JSON array")
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		h := NewLogHandler(&stubLogRepo{}, zap.NewNop())

		req := httptest.NewRequest(http.MethodGet, "/logs?status=pending", nil)
		rec := httptest.NewRecorder()
		logRouter(h).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects limit above cap", func(t *testing.T) {
		h := NewLogHandler(&stubLogRepo{}, zap.NewNop())

		req := httptest.NewRequest(http.MethodGet, "/logs?limit=5000", nil)
		rec := httptest.NewRecorder()
		logRouter(h).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLogHandler_Clear(t *testing.T) {
	logs := &stubLogRepo{entries: sampleEntries()}
	h := NewLogHandler(logs, zap.NewNop())

	req := httptest.NewRequest(http.MethodDelete, "/logs", nil)
	rec := httptest.NewRecorder()
	logRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, logs.cleared)
}

func TestLogHandler_Export(t *testing.T) {
	t.Run("json export", func(t *testing.T) {
		h := NewLogHandler(&stubLogRepo{entries: sampleEntries()}, zap.NewNop())

		req := httptest.NewRequest(http.MethodGet, "/logs/export?format=json", nil)
		rec := httptest.NewRecorder()
		logRouter(h).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "ai-logs.json")

		var got []models.LogEntry
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Len(t, got, 2)
	})

	t.Run("csv export matches json content", func(t *testing.T) {
		entries := sampleEntries()
		h := NewLogHandler(&stubLogRepo{entries: entries}, zap.NewNop())

		req := httptest.NewRequest(http.MethodGet, "/logs/export?format=csv", nil)
		rec := httptest.NewRecorder()
		logRouter(h).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))

		records, err := csv.NewReader(rec.Body).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3, "header plus two rows")

		assert.Equal(t, csvColumns, records[0])

		// same (id, status, providerId) triples as the JSON export
		assert.Equal(t, "2", records[1][0])
		assert.Equal(t, models.CallStatusFallback, records[1][4])
		assert.Equal(t, "openrouter", records[1][2])

		assert.Equal(t, "1", records[2][0])
		assert.Equal(t, models.CallStatusError, records[2][4])
		assert.Equal(t, "gemini", records[2][2])
		assert.Contains(t, records[2][7], "429")
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		h := NewLogHandler(&stubLogRepo{}, zap.NewNop())

		req := httptest.NewRequest(http.MethodGet, "/logs/export?format=xml", nil)
		rec := httptest.NewRecorder()
		logRouter(h).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

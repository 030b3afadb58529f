package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/De-Keersmaecker/Octovoc/internal/model"
	"github.com/De-Keersmaecker/Octovoc/internal/service"
	"github.com/De-Keersmaecker/Octovoc/internal/webutil"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AnalyticsHandler struct {
	service service.AnalyticsService
	logger  *slog.Logger
}

func NewAnalyticsHandler(s service.AnalyticsService, logger *slog.Logger) *AnalyticsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyticsHandler{service: s, logger: logger}
}

func (h *AnalyticsHandler) ModuleReport(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ModuleReport"))

	moduleID, err := uuidParam(r, "module_id", logger)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	stats, err := h.service.ModuleReport(r.Context(), moduleID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, stats, logger)
}

// MissedWords accepts optional from/to (RFC 3339 or YYYY-MM-DD) and limit
// query parameters.
func (h *AnalyticsHandler) MissedWords(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "MissedWords"))

	moduleID, err := uuidParam(r, "module_id", logger)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	q := model.MissedWordsQuery{ModuleID: moduleID}
	if q.From, err = timeQuery(r, "from"); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if q.To, err = timeQuery(r, "to"); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			webutil.HandleError(w, logger, model.NewAppError("INVALID_QUERY_PARAM", "limit must be a positive number.", "limit", model.ErrInvalidInput))
			return
		}
		q.Limit = limit
	}

	words, err := h.service.MissedWords(r.Context(), q)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, words, logger)
}

// Export streams the module report as an xlsx workbook.
func (h *AnalyticsHandler) Export(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ExportModuleReport"))

	moduleID, err := uuidParam(r, "module_id", logger)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	var buf bytes.Buffer
	if err := h.service.ExportModuleReport(r.Context(), moduleID, &buf); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	filename := fmt.Sprintf("module-%s-report.xlsx", moduleID)
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Error("Failed to write export", slog.Any("error", err))
	}
}

func timeQuery(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, model.NewAppError("INVALID_QUERY_PARAM", name+" must be a date (YYYY-MM-DD) or an RFC 3339 timestamp.", name, model.ErrInvalidInput)
}

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/De-Keersmaecker/Octovoc/internal/model"
	"github.com/De-Keersmaecker/Octovoc/internal/service"
	"github.com/De-Keersmaecker/Octovoc/internal/webutil"

	"github.com/go-chi/chi/v5"
)

type ClassCodeHandler struct {
	service service.ClassCodeService
	logger  *slog.Logger
}

func NewClassCodeHandler(s service.ClassCodeService, logger *slog.Logger) *ClassCodeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClassCodeHandler{service: s, logger: logger}
}

// Issue creates a class code. The instruction mail, if requested, is sent
// after the response.
func (h *ClassCodeHandler) Issue(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "IssueClassCode"))

	var req model.IssueClassCodeRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid class code request", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	cc, err := h.service.Issue(r.Context(), &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusCreated, cc, logger)
}

func (h *ClassCodeHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "DeactivateClassCode"))

	code := chi.URLParam(r, "code")
	if err := h.service.Deactivate(r.Context(), code); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

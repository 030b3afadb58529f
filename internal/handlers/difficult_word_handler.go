package handlers

import (
	"log/slog"
	"net/http"

	"github.com/De-Keersmaecker/Octovoc/internal/service"
	"github.com/De-Keersmaecker/Octovoc/internal/webutil"
)

type DifficultWordHandler struct {
	service service.DifficultWordService
	logger  *slog.Logger
}

func NewDifficultWordHandler(s service.DifficultWordService, logger *slog.Logger) *DifficultWordHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DifficultWordHandler{service: s, logger: logger}
}

func (h *DifficultWordHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ListDifficultWords"))

	student, err := studentID(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	words, err := h.service.List(r.Context(), student)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, words, logger)
}

func (h *DifficultWordHandler) Remove(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "RemoveDifficultWord"))

	student, err := studentID(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	wordID, err := uuidParam(r, "word_id", logger)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	if err := h.service.Remove(r.Context(), student, wordID); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

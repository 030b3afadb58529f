package handlers

import (
	"log/slog"
	"net/http"

	"github.com/De-Keersmaecker/Octovoc/internal/model"
	"github.com/De-Keersmaecker/Octovoc/internal/service"
	"github.com/De-Keersmaecker/Octovoc/internal/webutil"
)

type QuoteHandler struct {
	service service.QuoteService
	logger  *slog.Logger
}

func NewQuoteHandler(s service.QuoteService, logger *slog.Logger) *QuoteHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuoteHandler{service: s, logger: logger}
}

// Random returns one active quote, or null when there is none.
func (h *QuoteHandler) Random(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "RandomQuote"))

	quote, err := h.service.RandomActive(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, quote, logger)
}

func (h *QuoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "CreateQuote"))

	var req model.CreateQuoteRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid quote request", slog.String("error", err.Error()))
		webutil.HandleError(w, logger, err)
		return
	}
	quote, err := h.service.Create(r.Context(), &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusCreated, quote, logger)
}

func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ListQuotes"))

	quotes, err := h.service.List(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, quotes, logger)
}

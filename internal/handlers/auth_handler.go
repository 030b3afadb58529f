package handlers

import (
	"log/slog"
	"net/http"

	"github.com/De-Keersmaecker/Octovoc/internal/model"
	"github.com/De-Keersmaecker/Octovoc/internal/service"
	"github.com/De-Keersmaecker/Octovoc/internal/webutil"
)

type AuthHandler struct {
	service service.AuthService
	logger  *slog.Logger
}

func NewAuthHandler(s service.AuthService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{service: s, logger: logger}
}

// IssueToken hands out a bearer token for a new or returning student. An
// empty body registers a new student.
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "IssueToken"))

	var req model.TokenRequest
	if r.ContentLength != 0 {
		if err := webutil.DecodeAndValidate(r, &req); err != nil {
			logger.Warn("Invalid token request", slog.String("error", err.Error()))
			webutil.HandleError(w, logger, err)
			return
		}
	}
	resp, err := h.service.IssueStudentToken(r.Context(), &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

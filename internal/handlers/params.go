package handlers

import (
	"log/slog"
	"net/http"

	"github.com/De-Keersmaecker/Octovoc/internal/middleware"
	"github.com/De-Keersmaecker/Octovoc/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// uuidParam parses a uuid path parameter.
func uuidParam(r *http.Request, name string, logger *slog.Logger) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		logger.Warn("Invalid ID format in URL", slog.String("param", name), slog.String("value", raw))
		return uuid.Nil, model.NewAppError("INVALID_URL_PARAM", name+" is not a valid id.", name, model.ErrInvalidInput)
	}
	return id, nil
}

// studentID returns the caller's id. Routes behind RequireStudent always
// carry one.
func studentID(r *http.Request) (uuid.UUID, error) {
	identity := middleware.IdentityFromContext(r.Context())
	if identity == nil {
		return uuid.Nil, model.NewAppError("UNAUTHORIZED", "This endpoint requires a student identity.", "", model.ErrUnauthorized)
	}
	return identity.StudentID, nil
}

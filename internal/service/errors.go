package service

import (
	"errors"

	"github.com/De-Keersmaecker/Octovoc/internal/model"
)

// asAppError converts errors coming out of repositories and the progress
// engine into client-facing AppErrors. Errors that already are AppErrors pass
// through unchanged.
func asAppError(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		return err
	}
	switch {
	case errors.Is(err, model.ErrNotFound):
		return model.NewAppError("NOT_FOUND", notFoundMsg, "", err)
	case errors.Is(err, model.ErrInvalidState):
		return model.NewAppError("INVALID_STATE", err.Error(), "", err)
	case errors.Is(err, model.ErrForbidden):
		return model.NewAppError("ACCESS_DENIED", "A valid class code is required for this module.", "", err)
	case errors.Is(err, model.ErrConflict):
		return model.NewAppError("CONFLICT", "The resource already exists.", "", err)
	case errors.Is(err, model.ErrInvalidInput):
		return model.NewAppError("INVALID_INPUT", err.Error(), "", err)
	case errors.Is(err, model.ErrCatalogInconsistency):
		return model.NewAppError("CATALOG_INCONSISTENCY", "The module content is inconsistent.", "", err)
	default:
		return model.NewAppError("INTERNAL_SERVER_ERROR", "An internal server error occurred.", "", err)
	}
}

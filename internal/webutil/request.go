package webutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/De-Keersmaecker/Octovoc/internal/model"
)

// maxJSONBody bounds request bodies decoded by DecodeJSONBody.
const maxJSONBody = 1 << 20

// DecodeJSONBody decodes the request body into dst, rejecting unknown fields.
func DecodeJSONBody(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return model.NewAppError("INVALID_REQUEST_BODY", "Request body is required.", "", model.ErrInvalidInput)
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return model.NewAppError("INVALID_REQUEST_BODY", "Request body is required.", "", model.ErrInvalidInput)
		}
		return model.NewAppError("INVALID_REQUEST_BODY", "Request body is not valid JSON: "+err.Error(), "", model.ErrInvalidInput)
	}
	return nil
}

// DecodeAndValidate decodes the body and runs the struct validator on it.
func DecodeAndValidate(r *http.Request, dst interface{}) error {
	if err := DecodeJSONBody(r, dst); err != nil {
		return err
	}
	return ValidateStruct(dst)
}

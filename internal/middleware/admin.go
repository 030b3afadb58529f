package middleware

import (
	"net/http"

	"github.com/De-Keersmaecker/Octovoc/internal/model"
	"github.com/De-Keersmaecker/Octovoc/internal/webutil"

	"golang.org/x/crypto/bcrypt"
)

// AdminKeyMiddleware guards the admin API. The X-Admin-Key header is compared
// against a bcrypt hash; an empty hash locks the admin API entirely.
func AdminKeyMiddleware(keyHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())

			key := r.Header.Get("X-Admin-Key")
			if key == "" {
				logger.Warn("Admin auth failed: X-Admin-Key header missing")
				webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "X-Admin-Key header is required.", "", model.ErrUnauthorized))
				return
			}
			if keyHash == "" || bcrypt.CompareHashAndPassword([]byte(keyHash), []byte(key)) != nil {
				logger.Warn("Admin auth failed: key mismatch")
				webutil.HandleError(w, logger, model.NewAppError("FORBIDDEN", "Invalid admin key.", "", model.ErrForbidden))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

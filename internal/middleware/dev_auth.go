package middleware

import (
	"net/http"
	"strings"

	"github.com/De-Keersmaecker/Octovoc/internal/model"
	"github.com/De-Keersmaecker/Octovoc/internal/webutil"

	"github.com/google/uuid"
)

// DevIdentityMiddleware is used when auth is disabled. It trusts the
// X-Student-ID and X-Class-Code headers without any verification.
func DevIdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		studentIDStr := r.Header.Get("X-Student-ID")
		if studentIDStr == "" {
			next.ServeHTTP(w, r)
			return
		}

		logger := GetLogger(r.Context())
		studentID, err := uuid.Parse(studentIDStr)
		if err != nil {
			logger.Warn("[DEV AUTH] Invalid X-Student-ID", "value", studentIDStr)
			webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "[DEV] X-Student-ID must be a UUID.", "", model.ErrUnauthorized))
			return
		}

		identity := &model.Identity{
			StudentID: studentID,
			ClassCode: strings.TrimSpace(r.Header.Get("X-Class-Code")),
		}
		logger.Debug("[DEV AUTH] Student identity set from headers", "student_id", studentID.String())
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

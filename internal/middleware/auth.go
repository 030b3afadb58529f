package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/De-Keersmaecker/Octovoc/internal/model"
	"github.com/De-Keersmaecker/Octovoc/internal/webutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type identityCtxKey struct{}

// WithIdentity returns a copy of ctx carrying the student identity.
func WithIdentity(ctx context.Context, id *model.Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, id)
}

// IdentityFromContext returns the caller's identity, or nil for anonymous
// requests.
func IdentityFromContext(ctx context.Context) *model.Identity {
	id, _ := ctx.Value(identityCtxKey{}).(*model.Identity)
	return id
}

// JWTIdentityMiddleware resolves the student from an optional bearer token.
// Requests without an Authorization header continue anonymously; a malformed
// or invalid token is rejected.
func JWTIdentityMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				logger.Warn("JWT auth failed: Invalid Authorization header format")
				webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "Authorization header must be 'Bearer <token>'.", "", model.ErrUnauthorized))
				return
			}

			identity, err := ParseStudentToken(headerParts[1], secret)
			if err != nil {
				logger.Warn("JWT auth failed: Invalid token", "error", err)
				webutil.HandleError(w, logger, model.NewAppError("INVALID_TOKEN", "The access token is invalid.", "", model.ErrUnauthorized))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// ParseStudentToken verifies an HS256 token and extracts the identity from
// its subject and class_code claims.
func ParseStudentToken(tokenString, secret string) (*model.Identity, error) {
	claims := &model.StudentClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}

	subject, err := claims.GetSubject()
	if err != nil {
		return nil, err
	}
	studentID, err := uuid.Parse(subject)
	if err != nil {
		return nil, err
	}
	return &model.Identity{StudentID: studentID, ClassCode: claims.ClassCode}, nil
}

// RequireStudent rejects anonymous requests.
func RequireStudent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IdentityFromContext(r.Context()) == nil {
			logger := GetLogger(r.Context())
			logger.Warn("Anonymous request to a student-only route", "path", r.URL.Path)
			webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "This endpoint requires a student identity.", "", model.ErrUnauthorized))
			return
		}
		next.ServeHTTP(w, r)
	})
}

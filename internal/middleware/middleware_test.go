package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/De-Keersmaecker/Octovoc/internal/middleware"
	"github.com/De-Keersmaecker/Octovoc/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const secret = "middleware-test-secret"

func signToken(t *testing.T, key string, subject string, expiresAt time.Time) string {
	t.Helper()
	claims := model.StudentClaims{
		ClassCode: "SINT-AB12",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return signed
}

// identityProbe records the identity seen by the wrapped handler.
func identityProbe(seen **model.Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = middleware.IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestJWTIdentityMiddleware(t *testing.T) {
	studentID := uuid.New()

	tests := []struct {
		name         string
		header       string
		wantStatus   int
		wantIdentity bool
	}{
		{name: "no header is anonymous", header: "", wantStatus: http.StatusOK},
		{name: "valid token", header: "Bearer " + signToken(t, secret, studentID.String(), time.Now().Add(time.Hour)), wantStatus: http.StatusOK, wantIdentity: true},
		{name: "lower case scheme", header: "bearer " + signToken(t, secret, studentID.String(), time.Now().Add(time.Hour)), wantStatus: http.StatusOK, wantIdentity: true},
		{name: "missing scheme", header: signToken(t, secret, studentID.String(), time.Now().Add(time.Hour)), wantStatus: http.StatusUnauthorized},
		{name: "expired token", header: "Bearer " + signToken(t, secret, studentID.String(), time.Now().Add(-time.Minute)), wantStatus: http.StatusUnauthorized},
		{name: "wrong secret", header: "Bearer " + signToken(t, "other", studentID.String(), time.Now().Add(time.Hour)), wantStatus: http.StatusUnauthorized},
		{name: "subject is not a uuid", header: "Bearer " + signToken(t, secret, "student-1", time.Now().Add(time.Hour)), wantStatus: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *model.Identity
			handler := middleware.JWTIdentityMiddleware(secret)(identityProbe(&seen))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantIdentity {
				require.NotNil(t, seen)
				assert.Equal(t, studentID, seen.StudentID)
				assert.Equal(t, "SINT-AB12", seen.ClassCode)
			} else {
				assert.Nil(t, seen)
			}
		})
	}
}

func TestParseStudentTokenRejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.RegisteredClaims{Subject: uuid.NewString(), ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = middleware.ParseStudentToken(unsigned, secret)
	assert.Error(t, err)
}

func TestRequireStudent(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	handler := middleware.RequireStudent(next)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), `"UNAUTHORIZED"`)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(middleware.WithIdentity(req.Context(), &model.Identity{StudentID: uuid.New()}))
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestDevIdentityMiddleware(t *testing.T) {
	studentID := uuid.New()

	var seen *model.Identity
	handler := middleware.DevIdentityMiddleware(identityProbe(&seen))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Student-ID", studentID.String())
	req.Header.Set("X-Class-Code", " sint-ab12 ")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, seen)
	assert.Equal(t, studentID, seen.StudentID)
	assert.Equal(t, "sint-ab12", seen.ClassCode)

	seen = nil
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, seen)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Student-ID", "42")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAdminKeyMiddleware(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	tests := []struct {
		name       string
		hash       string
		key        string
		wantStatus int
	}{
		{name: "missing key", hash: string(hash), key: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong key", hash: string(hash), key: "guess", wantStatus: http.StatusForbidden},
		{name: "right key", hash: string(hash), key: "s3cret", wantStatus: http.StatusOK},
		{name: "admin api locked without hash", hash: "", key: "s3cret", wantStatus: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.key != "" {
				req.Header.Set("X-Admin-Key", tt.key)
			}
			rr := httptest.NewRecorder()
			middleware.AdminKeyMiddleware(tt.hash)(next).ServeHTTP(rr, req)
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestLoggingMiddlewareMasksSensitiveHeaders(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var ctxLogger *slog.Logger
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxLogger = middleware.GetLogger(r.Context())
		w.Write([]byte(`{"ok":true}`))
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/quotes", strings.NewReader(`{"text":"hi"}`))
	req.Header.Set("X-Admin-Key", "s3cret")
	rr := httptest.NewRecorder()
	middleware.LoggingMiddleware(logger)(next).ServeHTTP(rr, req)

	require.NotNil(t, ctxLogger)
	assert.NotSame(t, slog.Default(), ctxLogger)
	out := buf.String()
	assert.Contains(t, out, "Request detail")
	assert.Contains(t, out, "[SENSITIVE]")
	assert.NotContains(t, out, "s3cret")
	assert.Contains(t, out, `{\"text\":\"hi\"}`)
}

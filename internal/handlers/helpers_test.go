package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/De-Keersmaecker/Octovoc/internal/config"
	"github.com/De-Keersmaecker/Octovoc/internal/handlers"
	"github.com/De-Keersmaecker/Octovoc/internal/model"
	"github.com/De-Keersmaecker/Octovoc/internal/repository"
	"github.com/De-Keersmaecker/Octovoc/internal/service"
	"github.com/De-Keersmaecker/Octovoc/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	testAdminKey  = "admin-secret"
	testJWTSecret = "handler-test-secret"
)

type testApp struct {
	server   *httptest.Server
	db       *gorm.DB
	services handlers.Services
	ctx      context.Context
}

func newTestApp(t *testing.T, authEnabled bool) *testApp {
	t.Helper()
	db := testutil.NewDB(t)
	logger := testutil.Logger()

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminKey), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.Config{
		Server: config.ServerConfig{RequestTimeout: 5 * time.Second},
		Auth: config.AuthConfig{
			Enabled:      authEnabled,
			JWTSecret:    testJWTSecret,
			AdminKeyHash: string(hash),
			TokenTTL:     time.Hour,
		},
		Mailer: config.MailerConfig{FrontendURL: "http://localhost:5173"},
		App:    config.AppConfig{MissedWordsLimit: 10},
	}

	moduleRepo := repository.NewGormModuleRepository()
	wordRepo := repository.NewGormWordRepository()
	progressRepo := repository.NewGormProgressRepository()
	difficultRepo := repository.NewGormDifficultWordRepository()
	quoteRepo := repository.NewGormQuoteRepository()

	classCodes, err := service.NewClassCodeService(db, repository.NewGormClassCodeRepository(), &service.LogMailer{}, cfg.Mailer)
	require.NoError(t, err)
	t.Cleanup(classCodes.Wait)

	svc := handlers.Services{
		Progress:       service.NewProgressService(db, moduleRepo, wordRepo, progressRepo, difficultRepo, quoteRepo, classCodes),
		Catalog:        service.NewCatalogService(db, moduleRepo, wordRepo),
		DifficultWords: service.NewDifficultWordService(db, difficultRepo),
		Quotes:         service.NewQuoteService(db, quoteRepo),
		ClassCodes:     classCodes,
		Analytics:      service.NewAnalyticsService(db, repository.NewGormAnalyticsRepository(), moduleRepo, wordRepo, progressRepo, cfg.App),
		Auth:           service.NewAuthService(classCodes, cfg.Auth),
	}

	server := httptest.NewServer(handlers.NewRouter(cfg, db, svc, logger))
	t.Cleanup(server.Close)

	return &testApp{server: server, db: db, services: svc, ctx: testutil.Context()}
}

// do sends a request. Bodies that are not strings are JSON encoded.
func (a *testApp) do(t *testing.T, method, path string, body interface{}, headers map[string]string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(t, err)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return a.send(t, req)
}

func (a *testApp) send(t *testing.T, req *http.Request) (int, []byte) {
	t.Helper()
	resp, err := a.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

// upload posts a multipart form with a single "file" part.
func (a *testApp) upload(t *testing.T, method, path, filename, content string, fields map[string]string) (int, []byte) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(method, a.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Admin-Key", testAdminKey)
	return a.send(t, req)
}

func (a *testApp) createModule(t *testing.T, name string, free bool) *model.ModuleSummary {
	t.Helper()
	rows := []model.WordRow{
		{Line: 2, Word: "candid", Meaning: "open", ExampleSentence: "A *candid* reply."},
		{Line: 3, Word: "terse", Meaning: "brief", ExampleSentence: "A *terse* note."},
		{Line: 4, Word: "wary", Meaning: "cautious", ExampleSentence: "Be *wary*."},
	}
	summary, err := a.services.Catalog.CreateModule(a.ctx, &model.CreateModuleRequest{Name: name, IsFree: free}, rows)
	require.NoError(t, err)
	return summary
}

func decodeJSON[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), "body: %s", string(raw))
	return v
}

// assertErrorCode checks the {"error": {...}} envelope.
func assertErrorCode(t *testing.T, raw []byte, code string) {
	t.Helper()
	resp := decodeJSON[model.APIErrorResponse](t, raw)
	assert.Equal(t, code, resp.Error.Code, "body: %s", string(raw))
}

func adminHeaders() map[string]string {
	return map[string]string{"X-Admin-Key": testAdminKey}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600))
	return dir
}

func TestLoad_FileAndDefaults(t *testing.T) {
	dir := writeConfig(t, `
database:
  driver: sqlite
  url: "file:octovoc.db"
server:
  port: ":9090"
auth:
  enabled: true
  jwt_secret: "s3cret"
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file:octovoc.db", cfg.Database.URL)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, ":9090", cfg.Server.Port)
	assert.Equal(t, DefaultReadTimeout, cfg.Server.ReadTimeout)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultMailerType, cfg.Mailer.Type)
	assert.Equal(t, DefaultClassCodeTemplate, cfg.Mailer.ClassCodeTemplate)
	assert.Equal(t, DefaultMissedWordsLimit, cfg.App.MissedWordsLimit)
	assert.Equal(t, DefaultTokenTTL, cfg.Auth.TokenTTL)
	assert.Contains(t, cfg.CORS.AllowedHeaders, "X-Admin-Key")
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	dir := writeConfig(t, `
database:
  driver: postgres
  url: "postgres://file"
auth:
  enabled: false
`)
	t.Setenv("OCTOVOC_DATABASE_URL", "postgres://env")
	t.Setenv("OCTOVOC_SERVER_WRITE_TIMEOUT", "30s")
	t.Setenv("OCTOVOC_APP_MISSED_WORDS_LIMIT", "10")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "postgres://env", cfg.Database.URL)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 10, cfg.App.MissedWordsLimit)
	assert.False(t, cfg.Auth.Enabled)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "missing jwt secret with auth enabled",
			body: "database:\n  url: \"postgres://x\"\nauth:\n  enabled: true\n",
		},
		{
			name: "unknown driver",
			body: "database:\n  driver: mysql\n  url: \"x\"\nauth:\n  enabled: false\n",
		},
		{
			name: "missing database url",
			body: "auth:\n  enabled: false\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

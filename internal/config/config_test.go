package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"GIN_MODE", "PORT", "LOG_LEVEL", "DATABASE_PATH", "CATALOG_PATH", "IMAGES_DIR",
	"SESSION_TTL", "VISITOR_RETENTION", "ADMIN_USERNAME", "ADMIN_PASSWORD",
	"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASS", "TO_EMAIL", "CONTACT_EMAIL",
}

// clearEnv blanks every key for the test; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "gallery.db", cfg.DatabasePath)
	assert.Empty(t, cfg.CatalogPath)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 365*24*time.Hour, cfg.VisitorRetention)
	assert.Equal(t, "admin", cfg.Admin.Username)
	assert.True(t, cfg.Admin.Defaulted)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTP.Host)
	assert.False(t, cfg.SMTP.Configured())
	assert.False(t, cfg.Release())
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GIN_MODE", "release")
	t.Setenv("PORT", "9000")
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("ADMIN_USERNAME", "curator")
	t.Setenv("ADMIN_PASSWORD", "s3cret")
	t.Setenv("SMTP_USER", "mailer@example.com")
	t.Setenv("SMTP_PASS", "pw")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.True(t, cfg.Release())
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "curator", cfg.Admin.Username)
	assert.False(t, cfg.Admin.Defaulted)
	assert.True(t, cfg.SMTP.Configured())
}

func TestFromEnv_InvalidDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_TTL", "soon")
	_, err := FromEnv()
	assert.ErrorContains(t, err, "SESSION_TTL")

	t.Setenv("SESSION_TTL", "-1m")
	_, err = FromEnv()
	assert.ErrorContains(t, err, "must be positive")
}

func TestFromEnv_InvalidMode(t *testing.T) {
	clearEnv(t)
	t.Setenv("GIN_MODE", "production")
	_, err := FromEnv()
	assert.ErrorContains(t, err, "GIN_MODE")
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PORT=7070\nCATALOG_PATH=catalog.yaml\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, "catalog.yaml", cfg.CatalogPath)
}

func TestLoad_MissingEnvFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"APP_ENV", "PORT", "LOG_LEVEL", "LOG_FILE_PATH", "DIRECTORY_API_URL", "PAGE_SIZE",
	"SEARCH_DEBOUNCE", "SESSION_TTL", "KEEPALIVE_URL", "KEEPALIVE_INTERVAL",
	"DEVAPI_PORT", "DB_PATH", "ALLOWED_ORIGINS",
}

// clearEnv blanks every recognised variable; empty values count as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadLeavesDotEnvToCaller(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT=9999\nDEVAPI_PORT=9998\n"), 0o600))
	t.Chdir(dir)
	// unset rather than blank, so a .env loader would fill them in
	for _, k := range []string{"PORT", "DEVAPI_PORT"} {
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "8000", LoadDevAPI().Port)
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DevelopmentAPIURL, cfg.API.BaseURL)
	assert.Equal(t, 8, cfg.PageSize)
	assert.Equal(t, 500*time.Millisecond, cfg.Debounce)
	assert.Equal(t, 14*time.Minute, cfg.KeepAlive.Interval)
	assert.Empty(t, cfg.KeepAlive.URL)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
env: production
port: "9090"
api:
  base_url: https://directory.example.com/api/v1
page_size: 12
debounce: 250ms
keepalive:
  url: https://directory.example.com/health
  interval: 5m
`), 0o600))

	t.Setenv("PAGE_SIZE", "20")
	t.Setenv("SEARCH_DEBOUNCE", "300")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, EnvProduction, cfg.Env)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "https://directory.example.com/api/v1", cfg.API.BaseURL)
	assert.Equal(t, 20, cfg.PageSize, "environment wins over the file")
	assert.Equal(t, 300*time.Millisecond, cfg.Debounce, "bare integers are milliseconds")
	assert.Equal(t, 5*time.Minute, cfg.KeepAlive.Interval)
}

func TestLoadProductionNeedsAPIURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	_, err := Load("")
	assert.ErrorIs(t, err, ErrMissingAPIURL)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"page size zero":     {"PAGE_SIZE": "0"},
		"page size too big":  {"PAGE_SIZE": "101"},
		"negative debounce":  {"SEARCH_DEBOUNCE": "-1s"},
		"unknown env":        {"APP_ENV": "staging"},
		"keepalive interval": {"KEEPALIVE_URL": "http://x", "KEEPALIVE_INTERVAL": "0s"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadDevAPI(t *testing.T) {
	clearEnv(t)
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:8080, https://app.example.com,")

	cfg := LoadDevAPI()
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "directory.db", cfg.DBPath)
	assert.Equal(t, []string{"http://localhost:8080", "https://app.example.com"}, cfg.AllowedOrigins)
}

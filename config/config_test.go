package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
postgres:
  dsn: postgres://file/db
redis:
  url: redis://localhost:6379/0
  standings_ttl: 30s
http:
  addr: ":9090"
observability:
  log_level: debug
  log_format: text
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "postgres://file/db", cfg.Postgres.DSN)
	require.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	require.Equal(t, 30*time.Second, cfg.Redis.StandingsTTL)
	require.Equal(t, ":9090", cfg.HTTP.Addr)
	require.Equal(t, float64(defaultRateLimit), cfg.HTTP.RateLimit)
	require.Equal(t, defaultRateBurst, cfg.HTTP.RateBurst)
	require.Equal(t, float64(defaultImportLimit), cfg.HTTP.ImportRateLimit)
	require.Equal(t, defaultImportBurst, cfg.HTTP.ImportRateBurst)
	require.Equal(t, "debug", cfg.Observability.LogLevel)
	require.Equal(t, "text", cfg.Observability.LogFormat)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "postgres:\n  dsn: postgres://file/db\n")
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("STANDINGS_CACHE_TTL", "1m")
	t.Setenv("HTTP_IMPORT_RATE_BURST", "2")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "postgres://env/db", cfg.Postgres.DSN)
	require.Equal(t, 2, cfg.HTTP.ImportRateBurst)
	require.Equal(t, time.Minute, cfg.Redis.StandingsTTL)
}

func TestLoadConfig_MissingFileUsesEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/only")
	t.Setenv("HTTP_ADDR", ":7000")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, "postgres://env/only", cfg.Postgres.DSN)
	require.Equal(t, ":7000", cfg.HTTP.Addr)
	require.Equal(t, defaultStandingsTTL, cfg.Redis.StandingsTTL)
	require.NoError(t, cfg.RequirePostgres())
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("invalid yaml", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "postgres: [unterminated"))
		require.ErrorContains(t, err, "failed to unmarshal config")
	})

	t.Run("invalid env value", func(t *testing.T) {
		t.Setenv("HTTP_RATE_BURST", "lots")
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		require.ErrorContains(t, err, "failed to parse environment")
	})
}

func TestRequirePostgres(t *testing.T) {
	cfg := &Config{}
	require.Error(t, cfg.RequirePostgres())
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "carewatch", cfg.ServiceName)
	assert.Equal(t, "none", cfg.TriggerMode)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "survey:rows", cfg.Stream.Name)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TRIGGER_MODE", "stream")
	t.Setenv("POSTGRES_PORT", "15432")
	t.Setenv("CACHE_TTL", "90s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "stream", cfg.TriggerMode)
	assert.Equal(t, 15432, cfg.Postgres.Port)
	assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
}

func TestLoad_YAMLOverlayThenEnvWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "carewatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
trigger_mode: stream
log_level: debug
postgres:
  host: db.internal
  port: 5433
`), 0o644))

	t.Setenv("CAREWATCH_CONFIG", path)
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "stream", cfg.TriggerMode)
	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.Equal(t, 5433, cfg.Postgres.Port)
	// Env beats the file.
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_MissingConfigFileFails(t *testing.T) {
	t.Setenv("CAREWATCH_CONFIG", "/nonexistent/carewatch.yaml")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidIntEnvFallsBack(t *testing.T) {
	t.Setenv("POSTGRES_PORT", "not-a-number")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5432, cfg.Postgres.Port)
}

package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_Defaults verifies that default values are used when env vars are missing.
func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("APP_ENV")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("SERVER_PORT")

	cfg, err := Load(".")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 0.6, cfg.Tracking.SuccessThreshold)
	assert.Equal(t, 20, cfg.Tracking.AttemptTimeoutSeconds)
	assert.Equal(t, 2000, cfg.Tracking.MinIntervalMillis)
	assert.Equal(t, 1, cfg.Tracking.MaxParallel)
	assert.False(t, cfg.Tracking.BestEffort)
	assert.Equal(t, 900, cfg.Cache.OutcomeTTLSeconds)
	assert.False(t, cfg.Proxy.Enabled)
}

// TestLoad_EnvVars verifies that environment variables override defaults.
func TestLoad_EnvVars(t *testing.T) {
	os.Setenv("APP_ENV", "production")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("TRACK_SUCCESS_THRESHOLD", "0.75")
	os.Setenv("TRACK_MIN_INTERVAL_MS", "5000")
	os.Setenv("TRACK_MAX_PARALLEL", "3")
	os.Setenv("REDIS_URL", "redis://localhost:6379")
	defer func() {
		os.Unsetenv("APP_ENV")
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("TRACK_SUCCESS_THRESHOLD")
		os.Unsetenv("TRACK_MIN_INTERVAL_MS")
		os.Unsetenv("TRACK_MAX_PARALLEL")
		os.Unsetenv("REDIS_URL")
	}()

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, 0.75, cfg.Tracking.SuccessThreshold)
	assert.Equal(t, 5000, cfg.Tracking.MinIntervalMillis)
	assert.Equal(t, 3, cfg.Tracking.MaxParallel)
	assert.Equal(t, "redis://localhost:6379", cfg.Cache.RedisURL)
}

// TestLoad_File verifies that values are loaded from a .env file.
func TestLoad_File(t *testing.T) {
	content := []byte(`
APP_ENV=staging
LOG_LEVEL=warn
SERVER_PORT=7070
TRACK_BEST_EFFORT=true
PROXY_ENABLED=true
PROXY_HOSTNAME=geo.iproyal.com
PROXY_PORT=12321
`)
	err := os.WriteFile(".env", content, 0644)
	require.NoError(t, err)
	defer os.Remove(".env")

	cfg, err := Load(".")
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 7070, cfg.ServerPort)
	assert.True(t, cfg.Tracking.BestEffort)
	assert.True(t, cfg.Proxy.Enabled)
	assert.Equal(t, "geo.iproyal.com", cfg.Proxy.Hostname)
	assert.Equal(t, 12321, cfg.Proxy.Port)
}

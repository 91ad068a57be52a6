package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv resets every LEDGER_* variable Load reads, so each test starts
// from a clean slate regardless of what the process environment carries.
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"LEDGER_HOST", "LEDGER_HTTP_PORT", "LEDGER_HTTPS_PORT",
		"LEDGER_TLS_CERT_FILE", "LEDGER_TLS_KEY_FILE", "LEDGER_DB_PATH",
		"LEDGER_RATE_LIMIT_RPS", "LEDGER_RATE_LIMIT_BURST",
		"LEDGER_PROFILING_ENABLED", "LEDGER_PROFILING_PORT",
		"LEDGER_METRICS_ENABLED", "LEDGER_TIMEZONE", "LEDGER_COOKIE_SECRET",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoad_RejectsShortCookieSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("LEDGER_COOKIE_SECRET", "too-short")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_RejectsInvalidTimezone(t *testing.T) {
	clearEnv(t)
	t.Setenv("LEDGER_COOKIE_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("LEDGER_TIMEZONE", "Not/ARealZone")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LEDGER_COOKIE_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("LEDGER_HTTP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, "./ledger.db", cfg.Database.Path)
	assert.Equal(t, 5.0, cfg.RateLimit.RequestsPerSecond)
	assert.True(t, cfg.Metrics.Enabled)
	assert.False(t, cfg.Profiling.Enabled)
	require.NotNil(t, cfg.Location())
	assert.Equal(t, "UTC", cfg.Location().String())
}

func TestLoad_InvalidIntFallsBackToDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("LEDGER_COOKIE_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("LEDGER_HTTP_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DispatchParameters_Defaults(t *testing.T) {
	envVars := []string{
		"DISPATCH_TIMEOUT_SECONDS",
		"DISPATCH_RATE_PER_SECOND",
		"DISPATCH_BURST",
		"WEBHOOK_CACHE_TTL_SECONDS",
	}
	for _, key := range envVars {
		_ = os.Unsetenv(key)
	}

	cfg := Load()

	assert.Equal(t, 90, cfg.DispatchTimeout, "dispatch timeout should default to 90s")
	assert.Equal(t, 5.0, cfg.DispatchRate)
	assert.Equal(t, 5, cfg.DispatchBurst)
	assert.Equal(t, 30, cfg.WebhookCacheTTL)
}

func TestLoad_DispatchParameters_FromEnv(t *testing.T) {
	t.Setenv("DISPATCH_TIMEOUT_SECONDS", "15")
	t.Setenv("DISPATCH_RATE_PER_SECOND", "2.5")
	t.Setenv("DISPATCH_BURST", "1")

	cfg := Load()

	assert.Equal(t, 15, cfg.DispatchTimeout)
	assert.Equal(t, 2.5, cfg.DispatchRate)
	assert.Equal(t, 1, cfg.DispatchBurst)
}

func TestLoad_ReconcileAndSweep_Defaults(t *testing.T) {
	for _, key := range []string{"RECONCILE_DEDUP_WINDOW_MINUTES", "SWEEP_INTERVAL_SECONDS", "SWEEP_GRACE_SECONDS"} {
		_ = os.Unsetenv(key)
	}

	cfg := Load()

	assert.Equal(t, 10, cfg.DedupWindow)
	assert.Equal(t, 60, cfg.SweepInterval)
	assert.Equal(t, 30, cfg.SweepGrace)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("RECONCILE_DEDUP_WINDOW_MINUTES", "not-a-number")

	cfg := Load()

	assert.Equal(t, 10, cfg.DedupWindow)
}

func TestLoad_DBPasswordFromFile(t *testing.T) {
	dir := t.TempDir()
	secretFile := filepath.Join(dir, "db_password")
	require.NoError(t, os.WriteFile(secretFile, []byte("s3cret\n"), 0o600))

	_ = os.Unsetenv("DB_PASSWORD")
	t.Setenv("DB_PASSWORD_FILE", secretFile)

	cfg := Load()

	assert.Equal(t, "s3cret", cfg.DBPassword, "file content should be trimmed")
}

func TestLoad_DBPasswordEnvWinsOverFile(t *testing.T) {
	t.Setenv("DB_PASSWORD", "direct")
	t.Setenv("DB_PASSWORD_FILE", "/nonexistent")

	cfg := Load()

	assert.Equal(t, "direct", cfg.DBPassword)
}

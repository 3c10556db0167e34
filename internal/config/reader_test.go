package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ENV", "local")
	t.Setenv("POSTGRES_HOST", "localhost")
	t.Setenv("POSTGRES_USERNAME", "taskhive")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DATABASE", "taskhive")
	t.Setenv("JWT_SIGNING_KEY", "test-signing-key")
}

func TestReadEnvDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := NewEnvReader().Read()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, "disable", cfg.Postgres.SSLMode)
	assert.Equal(t, "taskhive", cfg.JWT.Issuer)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenTTL)
	assert.Equal(t, "google.token", cfg.Google.TokenFile)
	assert.False(t, cfg.Scheduler.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.Scheduler.CheckInterval)
}

func TestReadEnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("SCHEDULER_ENABLED", "true")
	t.Setenv("SCHEDULER_CHECK_INTERVAL", "5m")
	t.Setenv("GOOGLE_DEFAULT_RECIPIENT", "owner@example.com")

	cfg, err := NewEnvReader().Read()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTP.Port)
	assert.True(t, cfg.Scheduler.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Scheduler.CheckInterval)
	assert.Equal(t, "owner@example.com", cfg.Google.DefaultRecipient)
}

func TestReadEnvMissingRequired(t *testing.T) {
	t.Setenv("ENV", "local")
	// POSTGRES_* and JWT_SIGNING_KEY intentionally unset.
	t.Setenv("POSTGRES_HOST", "")

	_, err := NewEnvReader().Read()
	assert.Error(t, err)
}

func TestGlobalRoundTrip(t *testing.T) {
	cfg := &Config{Env: EnvDev}
	SetGlobal(cfg)
	assert.Same(t, cfg, Global())
}

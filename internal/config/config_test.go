package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, SessionBackendPostgres, cfg.Auth.SessionBackend)
	assert.Equal(t, 15*time.Minute, cfg.Auth.ReplayWindow)
	assert.NotEmpty(t, cfg.Database.URL)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("AUTH_REPLAY_WINDOW", "5m")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, SessionBackendRedis, cfg.Auth.SessionBackend)
	assert.Equal(t, 5*time.Minute, cfg.Auth.ReplayWindow)
	assert.Equal(t, "0.0.0.0:9090", cfg.Address())
}

func TestLoad_DurationInSeconds(t *testing.T) {
	t.Setenv("AUDIT_SYNC_INTERVAL", "45")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.Audit.SyncInterval)
}

func TestLoad_RejectsUnknownSessionBackend(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "memcached")

	_, err := Load()
	assert.Error(t, err)
}

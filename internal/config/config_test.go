package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "session-gateway", cfg.AppName)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	assert.Equal(t, 15*time.Minute, cfg.Session.UserIDCacheTTL)
	assert.Equal(t, "session_id", cfg.Session.CookieName)
	assert.Equal(t, "redis://localhost:6379", cfg.Redis.URL)
	assert.NotEmpty(t, cfg.Gateway.AuthURL)
	assert.Equal(t, 24, cfg.Audit.RetentionHours)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("USER_ID_CACHE_TTL", "2h")
	t.Setenv("SESSION_COOKIE_NAME", "sid")
	t.Setenv("REDIS_URL", "redis://cache.internal:6380")
	t.Setenv("AUTH_URL", "https://auth.example.com/login")
	t.Setenv("BACKEND_URL", "https://app.example.com")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, 2*time.Hour, cfg.Session.UserIDCacheTTL)
	assert.Equal(t, "sid", cfg.Session.CookieName)
	assert.Equal(t, "redis://cache.internal:6380", cfg.Redis.URL)
	assert.Equal(t, "https://auth.example.com/login", cfg.Gateway.AuthURL)
	assert.Equal(t, "https://app.example.com", cfg.Gateway.BackendURL)
	assert.Equal(t, "0.0.0.0:9090", cfg.Address())
}

func TestDurationAcceptsBareSeconds(t *testing.T) {
	t.Setenv("SESSION_TTL", "45")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.Session.TTL)
}

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

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Empty(t, cfg.CookieName)
	assert.Empty(t, cfg.RoutePrefix)
	assert.Equal(t, "user", cfg.IdentityParam)
	assert.Equal(t, 24*time.Hour, cfg.SessionLifetime)
	assert.Equal(t, 5*time.Second, cfg.VerifierTimeout)
	assert.True(t, cfg.SecureCookies)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("COOKIE_NAME", "sample_session_id")
	t.Setenv("ROUTE_PREFIX", "/auth")
	t.Setenv("SESSION_LIFETIME", "30m")
	t.Setenv("SECURE_COOKIES", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.AppPort)
	assert.Equal(t, "sample_session_id", cfg.CookieName)
	assert.Equal(t, "/auth", cfg.RoutePrefix)
	assert.Equal(t, 30*time.Minute, cfg.SessionLifetime)
	assert.False(t, cfg.SecureCookies)
}

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

	assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 400*time.Millisecond, cfg.Cart.DebounceWindow)
	assert.NotEmpty(t, cfg.Tokens.Path)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Minute, cfg.Server.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Server.RefreshTTL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.pawmart.example")
	t.Setenv("API_TIMEOUT", "5s")
	t.Setenv("CART_DEBOUNCE_WINDOW", "250ms")
	t.Setenv("TOKEN_FILE", "/tmp/pawmart-tokens.json")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.pawmart.example", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Cart.DebounceWindow)
	assert.Equal(t, "/tmp/pawmart-tokens.json", cfg.Tokens.Path)
	assert.Equal(t, "test-secret", cfg.Server.JWTSecret)
}

func TestLoadIgnoresMalformedDuration(t *testing.T) {
	t.Setenv("API_TIMEOUT", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
}

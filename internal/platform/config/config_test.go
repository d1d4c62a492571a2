package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StatusAPICurrent, cfg.StatusAPI)
	assert.Equal(t, 60*time.Second, cfg.StatusCacheTTL)
	assert.Equal(t, 8*time.Second, cfg.StatusTimeout)
	assert.Equal(t, "https://api.telegram.org", cfg.TelegramAPIURL)
	assert.Equal(t, "https://s0.wp.com/mshots/v1/", cfg.ScreenshotURL)
	assert.Empty(t, cfg.RedisURL)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("STATUS_API", "legacy")
	t.Setenv("STATUS_CACHE_TTL", "0s")
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("ADMIN_USER", "admin")
	t.Setenv("ADMIN_PASS", "hunter2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, StatusAPILegacy, cfg.StatusAPI)
	assert.Zero(t, cfg.StatusCacheTTL)
	assert.Equal(t, "123:abc", cfg.TelegramToken)
	assert.Equal(t, "admin", cfg.AdminUser)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"unknown status api", "STATUS_API", "v3", "STATUS_API must be"},
		{"zero timeout", "STATUS_TIMEOUT", "0s", "STATUS_TIMEOUT must be positive"},
		{"negative cache ttl", "STATUS_CACHE_TTL", "-1s", "STATUS_CACHE_TTL must not be negative"},
		{"zero bot timeout", "BOT_PROCESSING_TIMEOUT", "0s", "BOT_PROCESSING_TIMEOUT must be positive"},
		{"negative max age", "CARD_CACHE_MAX_AGE", "-5", "CARD_CACHE_MAX_AGE must not be negative"},
		{"admin user without pass", "ADMIN_USER", "admin", "ADMIN_USER and ADMIN_PASS must be set together"},
		{"zero rate", "API_RATE_LIMIT", "0", "API_RATE_LIMIT must be positive"},
		{"relative base url", "PUBLIC_BASE_URL", "/status", "PUBLIC_BASE_URL must be an absolute http(s) URL"},
		{"ftp base url", "PUBLIC_BASE_URL", "ftp://example.com", "PUBLIC_BASE_URL must be an absolute http(s) URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_PublicBaseURL(t *testing.T) {
	t.Setenv("PUBLIC_BASE_URL", "https://motd.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://motd.example.com", cfg.PublicBaseURL)
}

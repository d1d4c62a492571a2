package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

const (
	StatusAPICurrent = "current"
	StatusAPILegacy  = "legacy"
)

type Config struct {
	AppEnv    string `env:"APP_ENV" default:"development"`
	Port      string `env:"PORT" default:"8080"`
	RedisURL  string `env:"REDIS_URL"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	StatusAPI      string        `env:"STATUS_API" default:"current"`
	StatusAPIURL   string        `env:"STATUS_API_URL"`
	StatusTimeout  time.Duration `env:"STATUS_TIMEOUT" default:"8s"`
	StatusCacheTTL time.Duration `env:"STATUS_CACHE_TTL" default:"60s"`

	TelegramToken         string        `env:"TELEGRAM_TOKEN"`
	TelegramAPIURL        string        `env:"TELEGRAM_API_URL" default:"https://api.telegram.org"`
	TelegramWebhookSecret string        `env:"TELEGRAM_WEBHOOK_SECRET"`
	BotProcessingTimeout  time.Duration `env:"BOT_PROCESSING_TIMEOUT" default:"15s"`
	ScreenshotURL         string        `env:"SCREENSHOT_URL" default:"https://s0.wp.com/mshots/v1/"`

	// PublicBaseURL overrides the request-derived origin used in bot card links and webhook registration.
	PublicBaseURL        string `env:"PUBLIC_BASE_URL"`
	DefaultBackgroundURL string `env:"DEFAULT_BACKGROUND_URL" default:"https://other.api.yilx.cc/api/moe"`
	CardCacheMaxAge      int    `env:"CARD_CACHE_MAX_AGE" default:"0"`

	AdminUser string `env:"ADMIN_USER"`
	AdminPass string `env:"ADMIN_PASS"`

	APIRateLimit float64 `env:"API_RATE_LIMIT" default:"2"`
	APIRateBurst int     `env:"API_RATE_BURST" default:"5"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func validate(cfg *Config) error {
	if cfg.StatusAPI != StatusAPICurrent && cfg.StatusAPI != StatusAPILegacy {
		return fmt.Errorf("STATUS_API must be %q or %q, got %q", StatusAPICurrent, StatusAPILegacy, cfg.StatusAPI)
	}

	if cfg.StatusTimeout <= 0 {
		return errors.New("STATUS_TIMEOUT must be positive")
	}
	if cfg.StatusCacheTTL < 0 {
		return errors.New("STATUS_CACHE_TTL must not be negative")
	}
	if cfg.BotProcessingTimeout <= 0 {
		return errors.New("BOT_PROCESSING_TIMEOUT must be positive")
	}
	if cfg.CardCacheMaxAge < 0 {
		return errors.New("CARD_CACHE_MAX_AGE must not be negative")
	}

	if (cfg.AdminUser == "") != (cfg.AdminPass == "") {
		return errors.New("ADMIN_USER and ADMIN_PASS must be set together")
	}

	if cfg.APIRateLimit <= 0 || cfg.APIRateBurst < 1 {
		return errors.New("API_RATE_LIMIT must be positive and API_RATE_BURST at least 1")
	}

	if cfg.PublicBaseURL != "" {
		u, err := url.Parse(cfg.PublicBaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("PUBLIC_BASE_URL must be an absolute http(s) URL, got %q", cfg.PublicBaseURL)
		}
	}

	return nil
}

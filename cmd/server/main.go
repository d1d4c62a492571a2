package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/pscheid92/mcmotd/internal/adapter/httpserver"
	"github.com/pscheid92/mcmotd/internal/adapter/mcstatus"
	"github.com/pscheid92/mcmotd/internal/adapter/metrics"
	"github.com/pscheid92/mcmotd/internal/adapter/redis"
	"github.com/pscheid92/mcmotd/internal/adapter/telegram"
	"github.com/pscheid92/mcmotd/internal/app"
	"github.com/pscheid92/mcmotd/internal/bot"
	"github.com/pscheid92/mcmotd/internal/domain"
	"github.com/pscheid92/mcmotd/internal/platform/config"
	"github.com/pscheid92/mcmotd/internal/platform/logging"
	"github.com/pscheid92/mcmotd/internal/platform/version"
	goredis "github.com/redis/go-redis/v9"
)

const (
	cardTimeZone          = "Asia/Shanghai"
	cacheEvictionInterval = time.Minute
	shutdownTimeout       = 10 * time.Second
)

func runGracefulShutdown(srv *httpserver.Server, cleanups ...func()) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		for _, cleanup := range cleanups {
			cleanup()
		}

		close(done)
	}()

	return done
}

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

// setupRedis connects when REDIS_URL is set. Without it the service runs read-only on defaults.
func setupRedis(ctx context.Context, cfg *config.Config, m *metrics.RedisMetrics) *goredis.Client {
	if cfg.RedisURL == "" {
		slog.Warn("REDIS_URL not set, running without config store: settings are read-only defaults")
		return nil
	}

	client, err := redis.NewClient(ctx, cfg.RedisURL, m)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func setupFetcher(cfg *config.Config, clock clockwork.Clock, reg prometheus.Registerer) (domain.StatusFetcher, func()) {
	opts := []mcstatus.Option{
		mcstatus.WithMetrics(metrics.NewStatusMetrics(reg)),
		mcstatus.WithClock(clock),
	}
	if cfg.StatusAPIURL != "" {
		opts = append(opts, mcstatus.WithBaseURL(cfg.StatusAPIURL))
	}
	fetcher := mcstatus.NewFetcher(mcstatus.API(cfg.StatusAPI), cfg.StatusTimeout, opts...)

	if cfg.StatusCacheTTL == 0 {
		return fetcher, func() {}
	}

	cached := mcstatus.NewCachedFetcher(fetcher, cfg.StatusCacheTTL, clock, metrics.NewCacheMetrics(reg))
	stopEviction := cached.StartEvictionTimer(cacheEvictionInterval)
	return cached, stopEviction
}

func loadLocation() *time.Location {
	loc, err := time.LoadLocation(cardTimeZone)
	if err != nil {
		slog.Warn("Failed to load card time zone, using UTC", "zone", cardTimeZone, "error", err)
		return time.UTC
	}
	return loc
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port, "version", version.Get().Version)

	reg := metrics.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(reg)
	botMetrics := metrics.NewBotMetrics(reg)

	redisClient := setupRedis(context.Background(), cfg, metrics.NewRedisMetrics(reg))

	// kv stays a nil interface without Redis so the app layer sees "no store", not a typed nil.
	var kv domain.KeyValueStore
	var healthChecks []httpserver.HealthCheck
	if redisClient != nil {
		store := redis.NewKVStore(redisClient)
		kv = store
		healthChecks = append(healthChecks, httpserver.HealthCheck{Name: "redis", Check: store.Ping})
	}

	auth := app.NewAuthGuard(kv)
	configs := app.NewConfigStore(kv, auth)
	if err := configs.SeedCredentials(context.Background(), domain.Credentials{Username: cfg.AdminUser, Password: cfg.AdminPass}); err != nil {
		slog.Warn("Failed to seed admin credentials", "error", err)
	}

	fetcher, stopEviction := setupFetcher(cfg, clock, reg)

	relay := telegram.NewClient(cfg.TelegramAPIURL, botMetrics)
	shots := telegram.NewMShots(cfg.ScreenshotURL, clock)
	router := bot.NewRouter(configs, fetcher, relay, shots, cfg.TelegramToken)
	webhooks := app.NewWebhookRegistrar(configs, auth, relay, cfg.TelegramToken, cfg.TelegramWebhookSecret)

	srv, err := httpserver.NewServer(cfg, httpserver.Deps{
		Configs:        configs,
		Auth:           auth,
		Webhooks:       webhooks,
		Router:         router,
		Fetcher:        fetcher,
		HTTPMetrics:    httpMetrics,
		BotMetrics:     botMetrics,
		MetricsHandler: metrics.Handler(reg),
		Clock:          clock,
		Location:       loadLocation(),
	}, healthChecks)
	if err != nil {
		slog.Error("Failed to create server", "error", err)
		os.Exit(1)
	}

	done := runGracefulShutdown(srv,
		stopEviction,
		func() {
			if redisClient == nil {
				return
			}
			if err := redisClient.Close(); err != nil {
				slog.Error("Failed to close Redis client", "error", err)
			}
		},
	)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
	slog.Info("Shutdown complete")
}

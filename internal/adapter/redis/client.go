package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pscheid92/mcmotd/internal/adapter/metrics"
	"github.com/pscheid92/mcmotd/internal/platform/retry"
	goredis "github.com/redis/go-redis/v9"
)

// ConnectPolicy bounds how long startup waits for Redis to become reachable.
var ConnectPolicy = retry.Policy{
	MaxAttempts:    5,
	InitialBackoff: 200 * time.Millisecond,
	MaxBackoff:     3 * time.Second,
}

// NewClient parses redisURL, installs the metrics and circuit breaker hooks and
// waits until the server answers PING.
func NewClient(ctx context.Context, redisURL string, m *metrics.RedisMetrics) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	rdb := goredis.NewClient(opts)
	rdb.AddHook(NewMetricsHook(m))
	rdb.AddHook(NewCircuitBreakerHook(m))

	policy := ConnectPolicy
	policy.OnRetry = func(attempt int, err error, wait time.Duration) {
		slog.Warn("Redis not reachable yet", "attempt", attempt, "retry_in", wait, "error", err)
	}
	if err := retry.Do(ctx, policy, retry.Always, func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return rdb, nil
}

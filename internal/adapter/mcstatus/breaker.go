package mcstatus

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/pscheid92/mcmotd/internal/adapter/metrics"
	"github.com/sony/gobreaker"
)

// BreakerConfig configures the upstream circuit breaker.
type BreakerConfig struct {
	Name         string
	MaxRequests  uint32        // trial requests allowed while half-open
	Interval     time.Duration // closed-state counter reset period
	Timeout      time.Duration // open duration before probing
	FailureRatio float64
	MinRequests  uint32
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:         "status-upstream",
		MaxRequests:  2,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		FailureRatio: 0.6,
		MinRequests:  5,
	}
}

type breaker struct {
	cb *gobreaker.CircuitBreaker
}

func newBreaker(cfg BreakerConfig, m *metrics.StatusMetrics) *breaker {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		// A caller hanging up says nothing about upstream health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed", "component", name, "from", from.String(), "to", to.String())
			if m != nil {
				m.BreakerState.Set(stateValue(to))
			}
		},
	}
	return &breaker{cb: gobreaker.NewCircuitBreaker(settings)}
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func (b *breaker) state() gobreaker.State {
	return b.cb.State()
}

func execute[T any](b *breaker, fn func() (T, error)) (T, error) {
	out, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out.(T), nil
}

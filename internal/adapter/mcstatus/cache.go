package mcstatus

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/mcmotd/internal/adapter/metrics"
	"github.com/pscheid92/mcmotd/internal/domain"
	"golang.org/x/sync/singleflight"
)

// CachedFetcher keeps successful lookups for a short freshness window and collapses concurrent
// lookups of the same address into one upstream call. Errors are never cached.
type CachedFetcher struct {
	next    domain.StatusFetcher
	ttl     time.Duration
	clock   clockwork.Clock
	metrics *metrics.CacheMetrics
	group   singleflight.Group

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	status    domain.ServerStatus
	expiresAt time.Time
}

var _ domain.StatusFetcher = (*CachedFetcher)(nil)

func NewCachedFetcher(next domain.StatusFetcher, ttl time.Duration, clock clockwork.Clock, m *metrics.CacheMetrics) *CachedFetcher {
	return &CachedFetcher{
		next:    next,
		ttl:     ttl,
		clock:   clock,
		metrics: m,
		entries: make(map[string]cacheEntry),
	}
}

func (c *CachedFetcher) Fetch(ctx context.Context, address string) (domain.ServerStatus, error) {
	key := cacheKey(address)

	if status, ok := c.get(key); ok {
		c.count(func(m *metrics.CacheMetrics) { m.Hits.Inc() })
		return status, nil
	}

	// The shared lookup outlives any single caller; the fetcher's own timeout bounds it.
	lookupCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		status, err := c.next.Fetch(lookupCtx, address)
		if err != nil {
			return domain.ServerStatus{}, err
		}
		c.set(key, status)
		return status, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return domain.ServerStatus{}, ctx.Err()
	case res = <-ch:
	}

	if res.Shared {
		c.count(func(m *metrics.CacheMetrics) { m.Shared.Inc() })
	} else {
		c.count(func(m *metrics.CacheMetrics) { m.Misses.Inc() })
	}
	if res.Err != nil {
		return domain.ServerStatus{}, res.Err
	}
	return cloneStatus(res.Val.(domain.ServerStatus)), nil
}

func (c *CachedFetcher) get(key string) (domain.ServerStatus, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || !c.clock.Now().Before(entry.expiresAt) {
		return domain.ServerStatus{}, false
	}
	return cloneStatus(entry.status), true
}

func (c *CachedFetcher) set(key string, status domain.ServerStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{status: status, expiresAt: c.clock.Now().Add(c.ttl)}
	c.count(func(m *metrics.CacheMetrics) { m.Entries.Set(float64(len(c.entries))) })
}

// EvictExpired drops expired entries and returns how many were removed.
func (c *CachedFetcher) EvictExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	evicted := 0
	for key, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, key)
			evicted++
		}
	}
	c.count(func(m *metrics.CacheMetrics) { m.Entries.Set(float64(len(c.entries))) })
	return evicted
}

func (c *CachedFetcher) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// StartEvictionTimer evicts expired entries every interval until the returned stop func is called.
func (c *CachedFetcher) StartEvictionTimer(interval time.Duration) func() {
	ticker := c.clock.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.Chan():
				if evicted := c.EvictExpired(); evicted > 0 {
					slog.Debug("Evicted expired status cache entries", "count", evicted, "remaining", c.Size())
				}
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}

func (c *CachedFetcher) count(fn func(*metrics.CacheMetrics)) {
	if c.metrics != nil {
		fn(c.metrics)
	}
}

func cacheKey(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// cloneStatus copies the slices so callers cannot mutate cached state.
func cloneStatus(s domain.ServerStatus) domain.ServerStatus {
	if s.Players != nil {
		s.Players = append([]domain.Player(nil), s.Players...)
	}
	if s.PingMillis != nil {
		ping := *s.PingMillis
		s.PingMillis = &ping
	}
	return s
}

package metrics

import "github.com/prometheus/client_golang/prometheus"

// CacheMetrics tracks the status lookup cache.
type CacheMetrics struct {
	Hits    prometheus.Counter
	Misses  prometheus.Counter
	Shared  prometheus.Counter
	Entries prometheus.Gauge
}

func NewCacheMetrics(reg prometheus.Registerer) *CacheMetrics {
	m := &CacheMetrics{
		Hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "status_cache",
			Name:      "hits_total",
			Help:      "Status lookups served from the cache.",
		}),
		Misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "status_cache",
			Name:      "misses_total",
			Help:      "Status lookups that went upstream.",
		}),
		Shared: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "status_cache",
			Name:      "shared_total",
			Help:      "Status lookups that joined an in-flight upstream call.",
		}),
		Entries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "status_cache",
			Name:      "entries",
			Help:      "Entries currently held, including expired ones not yet evicted.",
		}),
	}

	reg.MustRegister(m.Hits, m.Misses, m.Shared, m.Entries)
	return m
}

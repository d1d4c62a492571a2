package metrics

import "github.com/prometheus/client_golang/prometheus"

// StatusMetrics tracks calls to the upstream status API.
type StatusMetrics struct {
	FetchesTotal  *prometheus.CounterVec
	FetchDuration prometheus.Histogram
	BreakerState  prometheus.Gauge
}

// Fetch results used as the "result" label.
const (
	ResultOnline  = "online"
	ResultOffline = "offline"
	ResultError   = "error"
)

func NewStatusMetrics(reg prometheus.Registerer) *StatusMetrics {
	m := &StatusMetrics{
		FetchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "fetches_total",
			Help:      "Upstream status fetches, by API generation and result.",
		}, []string{"api", "result"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of upstream status fetches in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8},
		}),
		BreakerState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "circuit_breaker_state",
			Help:      "Upstream circuit breaker state (0=closed, 1=half-open, 2=open).",
		}),
	}

	reg.MustRegister(m.FetchesTotal, m.FetchDuration, m.BreakerState)
	return m
}

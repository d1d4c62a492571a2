package metrics

import "github.com/prometheus/client_golang/prometheus"

// BotMetrics tracks the Telegram command pipeline.
type BotMetrics struct {
	UpdatesTotal  *prometheus.CounterVec
	RelayErrors   *prometheus.CounterVec
	HandleSeconds prometheus.Histogram
}

func NewBotMetrics(reg prometheus.Registerer) *BotMetrics {
	m := &BotMetrics{
		UpdatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bot",
			Name:      "updates_total",
			Help:      "Inbound bot updates, by terminal router state.",
		}, []string{"state"}),
		RelayErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bot",
			Name:      "relay_errors_total",
			Help:      "Failed calls to the chat relay API, by method.",
		}, []string{"method"}),
		HandleSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "bot",
			Name:      "handle_duration_seconds",
			Help:      "Time spent handling one inbound update.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		}),
	}

	reg.MustRegister(m.UpdatesTotal, m.RelayErrors, m.HandleSeconds)
	return m
}

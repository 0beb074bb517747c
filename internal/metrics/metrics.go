package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "raidcheck"

// RaidMetrics holds Prometheus metrics for raid sessions.
type RaidMetrics struct {
	SessionsStarted prometheus.Counter
	SessionsEnded   *prometheus.CounterVec
	ActiveSessions  prometheus.Gauge
	Confirmations   *prometheus.CounterVec
	Evictions       *prometheus.CounterVec
	WindowDuration  prometheus.Histogram
}

// NewRaidMetrics creates and registers raid metrics on the given registry.
func NewRaidMetrics(reg prometheus.Registerer) *RaidMetrics {
	m := &RaidMetrics{
		SessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Total number of raid sessions that opened a collection window.",
		}),
		SessionsEnded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_ended_total",
			Help:      "Total number of raid sessions that ended, by outcome.",
		}, []string{"outcome"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of raid sessions with an open collection window.",
		}),
		Confirmations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "confirmations_total",
			Help:      "Total number of limited reaction confirmations, by result.",
		}, []string{"result"}),
		Evictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evictions_total",
			Help:      "Total number of members removed from raid rooms, by action.",
		}, []string{"action"}),
		WindowDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "window_duration_seconds",
			Help:      "How long collection windows stayed open.",
			Buckets:   []float64{30, 60, 120, 180, 300, 600, 900, 1800},
		}),
	}

	reg.MustRegister(m.SessionsStarted, m.SessionsEnded, m.ActiveSessions, m.Confirmations, m.Evictions, m.WindowDuration)
	return m
}

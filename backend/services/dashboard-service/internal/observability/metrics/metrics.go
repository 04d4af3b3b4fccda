package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "voltboard_"

// Metrics holds the dashboard's prometheus collectors.
type Metrics struct {
	DroppedReadings prometheus.Counter
	PollCycles      prometheus.Counter
	PollErrors      prometheus.Counter
	SnapshotHits    prometheus.Counter
	SnapshotMisses  prometheus.Counter
	ActiveSessions  prometheus.Gauge
}

// New registers the dashboard collectors on the given registerer. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DroppedReadings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "readings_dropped_total",
			Help: "Readings dropped because timestamp or voltage was missing",
		}),
		PollCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "poll_cycles_total",
			Help: "Completed incremental poll cycles",
		}),
		PollErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "poll_errors_total",
			Help: "Poll cycles skipped due to a transient fetch error",
		}),
		SnapshotHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "snapshot_cache_hits_total",
			Help: "Snapshot requests served from the memoization cache",
		}),
		SnapshotMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "snapshot_cache_misses_total",
			Help: "Snapshot requests that went to the store",
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "dashboard_sessions",
			Help: "Dashboard stream sessions currently connected",
		}),
	}

	reg.MustRegister(
		m.DroppedReadings,
		m.PollCycles,
		m.PollErrors,
		m.SnapshotHits,
		m.SnapshotMisses,
		m.ActiveSessions,
	)
	return m
}

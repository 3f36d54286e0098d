// Package metrics holds the Prometheus collectors shared across the
// session and game layers, grounded on the same registration style as
// bayleafwalker-bindery-core's controllers/metrics.go.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// ConnectedSessions is the current number of live (non-suspended) reader
	// tasks.
	ConnectedSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "glap_connected_sessions",
		Help: "Number of currently connected player sessions.",
	})

	// TickDuration measures wall-clock time spent in one game tick, from
	// suspension expiry and thrust application through Simulation.Step.
	TickDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "glap_tick_duration_seconds",
		Help:    "Time taken to run one simulation tick.",
		Buckets: prometheus.DefBuckets,
	})

	// BeaminTotal counts beam-in HTTP fetch outcomes by result.
	BeaminTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "glap_beamin_total",
		Help: "Beam-in HTTP fetches by outcome.",
	}, []string{"outcome"})

	// BeamoutTotal counts beam-out HTTP POST outcomes by result.
	BeamoutTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "glap_beamout_total",
		Help: "Beam-out HTTP posts by outcome.",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(ConnectedSessions, TickDuration, BeaminTotal, BeamoutTotal)
}

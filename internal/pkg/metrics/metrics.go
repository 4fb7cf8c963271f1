package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// SnapshotDuration tracks end-to-end portfolio valuation latency.
	SnapshotDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "wallet_engine_snapshot_duration_seconds",
		Help:    "Time to compute one portfolio snapshot.",
		Buckets: prometheus.DefBuckets,
	})

	// UpstreamFailures counts recovered external-gateway failures by gateway.
	UpstreamFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wallet_engine_upstream_failures_total",
		Help: "External gateway calls that failed and were degraded to no-data.",
	}, []string{"gateway"})

	// CascadeResolutions counts cascade outcomes per resolver. Outcome is the
	// step name that produced the value, or "exhausted".
	CascadeResolutions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wallet_engine_cascade_resolutions_total",
		Help: "Price/floor cascade outcomes by resolver and winning step.",
	}, []string{"resolver", "outcome"})

	// LifecycleRuns counts trustline lifecycle outcomes by terminal phase.
	LifecycleRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wallet_engine_trustline_lifecycle_total",
		Help: "Trustline lifecycle runs by furthest phase reached.",
	}, []string{"phase", "failed"})
)

// MustRegisterMetrics registers all engine collectors with the default registry.
func MustRegisterMetrics() {
	prometheus.MustRegister(
		SnapshotDuration,
		UpstreamFailures,
		CascadeResolutions,
		LifecycleRuns,
	)
}

// ObserveUpstreamFailure records one recovered failure for a gateway.
func ObserveUpstreamFailure(gateway string) {
	UpstreamFailures.WithLabelValues(gateway).Inc()
}

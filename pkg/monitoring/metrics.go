package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Probe outcome label values.
const (
	OutcomeReady        = "ready"
	OutcomeNotYetReady  = "not_yet_ready"
	OutcomeClusterError = "cluster_error"
)

// Launcher metric collectors.
//
// These describe the readiness protocol that converts "pod exists" into
// "endpoint is reachable": how often we probed, how each probe ended, and
// how long the whole start took.
var (
	probeAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zeppelin_k8s_probe_attempts_total",
			Help: "Total readiness probe attempts, by outcome.",
		},
		[]string{"outcome"},
	)

	startupSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "zeppelin_k8s_startup_seconds",
			Help:    "Time from launching the worker to its endpoint becoming reachable.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)

	startupTimeoutsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "zeppelin_k8s_startup_timeouts_total",
			Help: "Starts that exhausted the connect timeout without a reachable endpoint.",
		},
	)

	endpointServices = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "zeppelin_k8s_endpoint_services",
			Help: "Endpoint services currently owned by this process.",
		},
	)
)

func init() {
	prometheus.MustRegister(Collectors()...)
}

// Collectors returns all metric collectors owned by this package. This is
// useful for testing that metrics are properly registered.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		probeAttemptsTotal,
		startupSeconds,
		startupTimeoutsTotal,
		endpointServices,
	}
}

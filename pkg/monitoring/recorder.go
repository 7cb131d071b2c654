package monitoring

import "time"

// RecordProbe counts one readiness probe attempt with the given outcome.
// Outcome should be one of the Outcome* constants.
func RecordProbe(outcome string) {
	probeAttemptsTotal.WithLabelValues(outcome).Inc()
}

// ObserveStartup records the wall-clock time a successful start took.
func ObserveStartup(d time.Duration) {
	startupSeconds.Observe(d.Seconds())
}

// RecordStartupTimeout counts a start that timed out before readiness.
func RecordStartupTimeout() {
	startupTimeoutsTotal.Inc()
}

// EndpointCreated bumps the owned endpoint service gauge.
func EndpointCreated() {
	endpointServices.Inc()
}

// EndpointDeleted drops the owned endpoint service gauge.
func EndpointDeleted() {
	endpointServices.Dec()
}

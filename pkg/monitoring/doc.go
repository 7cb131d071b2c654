// Package monitoring provides Prometheus metrics and OpenTelemetry tracing
// helpers for the launcher. It exposes domain-specific counters and gauges
// describing the readiness protocol: probe attempts by outcome, startup
// latency, and the endpoint services currently owned.
//
// All metrics follow the naming convention zeppelin_k8s_<metric>_<unit> and
// are registered against the default Prometheus registry on import.
//
// Usage in the launcher:
//
//	monitoring.RecordProbe(monitoring.OutcomeReady)
//	monitoring.ObserveStartup(time.Since(begin))
package monitoring

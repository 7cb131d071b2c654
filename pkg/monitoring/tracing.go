package monitoring

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName is the instrumentation scope name registered with OTel.
const tracerName = "zeppelin-k8s-launcher"

// Tracer is the package-level OTel tracer for the launcher.
// It returns a noop tracer when no TracerProvider is registered,
// making instrumentation zero-cost in the default configuration.
var Tracer = otel.Tracer(tracerName)

// StartLaunchSpan starts a new span for a worker lifecycle operation
// (start, probe, stop). The span is annotated with the worker's identity
// label and the namespace its resources live in. Callers must call
// span.End() when the operation completes.
func StartLaunchSpan(ctx context.Context, spanName, processLabel, namespace string) (context.Context, trace.Span) {
	ctx, span := Tracer.Start(ctx, spanName,
		trace.WithAttributes(
			attribute.String("worker.process_label", processLabel),
			attribute.String("k8s.namespace", namespace),
		),
	)
	return ctx, span
}

// StartChildSpan starts a child span under the current trace context.
// Use this for sub-operations within a start (e.g. PodDiscovery, Provision).
func StartChildSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	return Tracer.Start(ctx, spanName)
}

// RecordSpanError records an error on a span and sets the span status to
// Error. If err is nil, this is a no-op.
func RecordSpanError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

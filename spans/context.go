package spans

import (
	"context"

	"github.com/hydrokit/modelparams/contexts"
	"go.opentelemetry.io/otel/trace"
)

// contextKey is a unique type for storing values in context to avoid collisions.
type contextKey string

// TracerKey is the context key used to store the OpenTelemetry tracer.
const TracerKey contextKey = "tracer"

// WithTracer stores an OpenTelemetry tracer in the context.
// The StartErr and StartValErr orchestrators use this tracer to create spans.
//
// If no tracer is found in the context, the orchestrators execute the wrapped
// function without creating spans.
//
// Example:
//
//	ctx = spans.WithTracer(ctx, otel.Tracer("paramlint"))
func WithTracer(ctx context.Context, tracer trace.Tracer) context.Context {
	return contexts.WithValue[contextKey, trace.Tracer](ctx, TracerKey, tracer)
}

// TracerFromContext retrieves the OpenTelemetry tracer from the context.
// Returns the tracer and true if found, or nil and false if not present.
func TracerFromContext(ctx context.Context) (trace.Tracer, bool) {
	return contexts.GetValue[contextKey, trace.Tracer](ctx, TracerKey)
}

package spans

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrPanic wraps panics recovered while a traced function was executing.
var ErrPanic = errors.New("panic in traced operation")

// Option is a function that configures a runner.
// Options are applied when creating orchestrators via StartErr or StartValErr.
type Option func(*runner)

// runner manages the execution of a function within an OpenTelemetry span.
// It handles span lifecycle, error recording, panic recovery, and status
// reporting.
type runner struct {
	// spanName is the name of the OpenTelemetry span.
	spanName string
	// success is the custom success message for the span status (optional).
	success string
	// failure is the custom error message prefix for the span status (optional).
	failure string
	// spanKind is the OpenTelemetry span kind (default: SpanKindInternal).
	spanKind trace.SpanKind
	// tracer is the OpenTelemetry tracer used to create spans.
	tracer trace.Tracer
	// attrs are attributes set on the span at creation time.
	attrs []attribute.KeyValue
}

// newRunner creates a new runner with the given tracer, span name, and options.
func newRunner(tracer trace.Tracer, spanName string, opts ...Option) *runner {
	r := &runner{
		spanName: spanName,
		spanKind: trace.SpanKindInternal,
		tracer:   tracer,
	}

	for _, option := range opts {
		if option != nil {
			option(r)
		}
	}

	return r
}

// runWithSpan executes the given function within an OpenTelemetry span.
// It handles:
//   - Span creation and lifecycle management
//   - Panic recovery with stack traces
//   - Error recording and status setting
//   - Custom success/failure messages
//
// If the tracer is nil, the function is executed without creating a span.
func (r *runner) runWithSpan(
	ctx context.Context,
	operation func(ctx context.Context, span trace.Span) error,
) (errOut error) {
	if r == nil || r.tracer == nil {
		return operation(ctx, trace.SpanFromContext(ctx))
	}

	opts := []trace.SpanStartOption{trace.WithSpanKind(r.spanKind)}

	if len(r.attrs) > 0 {
		opts = append(opts, trace.WithAttributes(r.attrs...))
	}

	ctx, span := r.tracer.Start(ctx, r.spanName, opts...) //nolint:spancheck

	defer func() {
		defer span.End()

		if panicErr := recover(); panicErr != nil {
			span.SetAttributes(attribute.KeyValue{
				Key:   "panic",
				Value: attribute.Int64Value(1),
			})

			err := fmt.Errorf("%w: %v\n%s", ErrPanic, panicErr, debug.Stack())

			if errOut == nil {
				errOut = err
			} else {
				errOut = errors.Join(errOut, err)
			}

			r.setErrorStatus(span, errOut)

			panic(panicErr)
		}
	}()

	err := operation(ctx, span)
	if err != nil {
		span.RecordError(err)
		r.setErrorStatus(span, err)
	} else {
		r.setSuccessStatus(span)
	}

	return err
}

// setErrorStatus sets the span status to error with an optional custom message prefix.
func (r *runner) setErrorStatus(span trace.Span, err error) {
	if len(r.failure) > 0 {
		span.SetStatus(codes.Error, fmt.Sprintf("%s: %s", r.failure, err.Error()))
	} else {
		span.SetStatus(codes.Error, err.Error())
	}
}

// setSuccessStatus sets the span status to OK with an optional custom message.
func (r *runner) setSuccessStatus(span trace.Span) {
	if len(r.success) > 0 {
		span.SetStatus(codes.Ok, r.success)
	} else {
		span.SetStatus(codes.Ok, "ok")
	}
}

// invoke executes a function within an OpenTelemetry span if a tracer is found
// in the context. If no tracer is found, the function is executed without
// creating a span, and a metric is incremented to track the instrumentation gap.
//
// This is the internal function used by both orchestrator Enter() methods.
func invoke[T any](
	ctx context.Context, name string,
	call func(ctx context.Context, span trace.Span) (T, error), opts ...Option,
) (T, error) {
	tracer, found := TracerFromContext(ctx)
	if !found {
		spanWithoutTracerCounter.WithLabelValues(name).Inc()

		return call(ctx, trace.SpanFromContext(ctx))
	}

	run := newRunner(tracer, name, opts...)

	var value T

	err := run.runWithSpan(ctx, func(ctx context.Context, span trace.Span) error {
		var callErr error

		value, callErr = call(ctx, span)

		return callErr
	})
	if err != nil {
		var zero T

		return zero, err
	}

	return value, nil
}

package spans

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// StartErrorOrchestrator orchestrates the execution of a function that takes a
// context and returns an error. Create via spans.StartErr().
type StartErrorOrchestrator struct {
	ctx  context.Context //nolint:containedctx
	name string
	opts []Option
}

// Enter executes the given function within an OpenTelemetry span.
// The function signature is: func(context.Context, trace.Span) error
//
// Returns the error from the wrapped function, if any.
// Errors are automatically recorded in the span with an Error status.
// Panics are recovered, recorded in the span, and re-raised.
//
// Example:
//
//	err := spans.StartErr(ctx, "validate-document",
//	    spans.WithErrorMessage("document rejected"),
//	).Enter(func(ctx context.Context, span trace.Span) error {
//	    return validate(ctx, doc)
//	})
func (o *StartErrorOrchestrator) Enter(f func(ctx context.Context, span trace.Span) error) error {
	if f == nil {
		return nil
	}

	_, err := invoke[struct{}](o.ctx, o.name, func(ctx context.Context, span trace.Span) (struct{}, error) {
		return struct{}{}, f(ctx, span)
	}, o.opts...)

	return err
}

// StartValueErrorOrchestrator orchestrates the execution of a function that
// takes a context and returns both a value and an error. Create via
// spans.StartValErr().
type StartValueErrorOrchestrator[T any] struct {
	ctx  context.Context //nolint:containedctx
	name string
	opts []Option
}

// Enter executes the given function within an OpenTelemetry span.
// The function signature is: func(context.Context, trace.Span) (T, error)
//
// Returns the value and error from the wrapped function.
// Errors are automatically recorded in the span with an Error status.
// Panics are recovered, recorded in the span, and re-raised.
//
// Example:
//
//	result, err := spans.StartValErr[Result](ctx, "validate-document",
//	    spans.WithAttribute("document_id", attribute.StringValue(doc.ShortID())),
//	).Enter(func(ctx context.Context, span trace.Span) (Result, error) {
//	    return checker.Validate(ctx, doc)
//	})
func (o *StartValueErrorOrchestrator[T]) Enter(f func(ctx context.Context, span trace.Span) (T, error)) (T, error) {
	if f == nil {
		var zero T

		return zero, nil
	}

	return invoke[T](o.ctx, o.name, f, o.opts...)
}

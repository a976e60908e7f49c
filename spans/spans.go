package spans

import "context"

// StartErr creates an orchestrator for executing a function that takes a
// context and span and returns an error. Use this for operations that can fail
// but produce no value, such as writing a report or walking a corpus.
//
// The orchestrator executes the function within an OpenTelemetry span if a
// tracer is configured in the context via WithTracer(). If no tracer is
// present, the function executes normally without creating a span.
//
// Errors returned by the function are automatically recorded in the span with
// an Error status.
//
// The function signature expected by Enter() is: func(context.Context, trace.Span) error
//
// Example:
//
//	err := spans.StartErr(ctx, "write-report",
//	    spans.WithErrorMessage("report write failed"),
//	).Enter(func(ctx context.Context, span trace.Span) error {
//	    return writeReport(ctx, path)
//	})
func StartErr(
	ctx context.Context, name string, opts ...Option,
) *StartErrorOrchestrator {
	return &StartErrorOrchestrator{
		ctx:  ctx,
		name: name,
		opts: opts,
	}
}

// StartValErr creates an orchestrator for executing a function that takes a
// context and span and returns both a typed value and an error. This is the
// usual shape for fallible operations that produce results, such as decoding
// or validating a parameter document.
//
// The orchestrator executes the function within an OpenTelemetry span if a
// tracer is configured in the context via WithTracer(). If no tracer is
// present, the function executes normally without creating a span.
//
// Errors returned by the function are automatically recorded in the span with
// an Error status.
//
// The function signature expected by Enter() is: func(context.Context, trace.Span) (T, error)
//
// Example:
//
//	doc, err := spans.StartValErr[document.Map](ctx, "decode-document",
//	    spans.WithAttribute("source_file", attribute.StringValue(name)),
//	).Enter(func(ctx context.Context, span trace.Span) (document.Map, error) {
//	    return document.DecodeJSON(payload)
//	})
func StartValErr[Value any](
	ctx context.Context, name string, opts ...Option,
) *StartValueErrorOrchestrator[Value] {
	return &StartValueErrorOrchestrator[Value]{
		ctx:  ctx,
		name: name,
		opts: opts,
	}
}

// Package spans wraps fallible operations in OpenTelemetry spans with a fluent API.
//
// Orchestrators handle the span lifecycle around a traced function: creation,
// error recording, panic recovery, and status reporting. Two function shapes
// are supported, both receiving the span-bearing context and the span itself:
//   - StartErr: func(context.Context, trace.Span) error
//   - StartValErr: func(context.Context, trace.Span) (T, error)
//
// Usage example:
//
//	ctx = spans.WithTracer(ctx, tracer)
//	result, err := spans.StartValErr[Result](ctx, "validate-document",
//	    spans.WithAttribute("document_id", attribute.StringValue(doc.ShortID())),
//	).Enter(func(ctx context.Context, span trace.Span) (Result, error) {
//	    return checker.Validate(ctx, doc)
//	})
//
// If no tracer has been stored in the context, the wrapped function still runs,
// no span is created, and an instrumentation-gap counter is incremented.
package spans

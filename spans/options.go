package spans

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// WithAttribute adds a single attribute to the span when it is created.
//
// Use OpenTelemetry's attribute value constructors: StringValue, IntValue,
// BoolValue, and so on.
//
// Example:
//
//	spans.StartErr(ctx, "validate-document",
//	    spans.WithAttribute("document_id", attribute.StringValue(doc.ShortID())),
//	    spans.WithAttribute("parameter_count", attribute.IntValue(len(doc.Parameters))),
//	).Enter(func(ctx context.Context, span trace.Span) error {
//	    return validate(ctx, doc)
//	})
func WithAttribute(key attribute.Key, value attribute.Value) Option {
	return func(r *runner) {
		r.attrs = append(r.attrs, attribute.KeyValue{
			Key:   key,
			Value: value,
		})
	}
}

// WithAttributes adds a batch of attributes to the span when it is created.
//
// Example:
//
//	spans.StartErr(ctx, "load-corpus",
//	    spans.WithAttributes(
//	        attribute.String("corpus_dir", dir),
//	        attribute.Int("document_count", count),
//	    ),
//	).Enter(func(ctx context.Context, span trace.Span) error {
//	    return loadCorpus(ctx, dir)
//	})
func WithAttributes(attrs ...attribute.KeyValue) Option {
	return func(r *runner) {
		r.attrs = append(r.attrs, attrs...)
	}
}

// WithSpanKind sets the OpenTelemetry span kind, which indicates the role of
// the span in a trace. The default is SpanKindInternal, since spans here wrap
// in-process work rather than RPC boundaries.
//
// Example:
//
//	spans.StartErr(ctx, "push-report",
//	    spans.WithSpanKind(trace.SpanKindClient),
//	).Enter(func(ctx context.Context, span trace.Span) error {
//	    return uploadReport(ctx)
//	})
func WithSpanKind(kind trace.SpanKind) Option {
	return func(r *runner) {
		r.spanKind = kind
	}
}

// WithSuccessMessage sets a custom success message for the span status.
//
// When the wrapped function completes without error, this message becomes the
// span's status description with codes.Ok. If not provided, defaults to "ok".
//
// Example:
//
//	spans.StartErr(ctx, "validate-document",
//	    spans.WithSuccessMessage("document accepted"),
//	).Enter(func(ctx context.Context, span trace.Span) error {
//	    return validate(ctx, doc)
//	})
func WithSuccessMessage(description string) Option {
	return func(r *runner) {
		r.success = description
	}
}

// WithErrorMessage sets a custom error message prefix for the span status.
//
// When the wrapped function returns an error, this prefix is prepended to the
// error message in the span's status description. If not provided, only the
// error message is used.
//
// Example:
//
//	err := spans.StartErr(ctx, "validate-document",
//	    spans.WithErrorMessage("document rejected"),
//	).Enter(func(ctx context.Context, span trace.Span) error {
//	    return validate(ctx, doc)
//	})
//	// On error, the span status reads: "document rejected: {error message}"
func WithErrorMessage(description string) Option {
	return func(r *runner) {
		r.failure = description
	}
}

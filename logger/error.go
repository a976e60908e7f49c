package logger

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// AnnotateError wraps an error with structured logging attributes (slog
// key-value pairs). When the returned error is logged through a logger from
// Get, the attributes are extracted and included in the log output, so
// context attached at the point of failure survives wrapping and unwrapping.
//
// Args should be key-value pairs compatible with slog.
//
// Example:
//
//	set, err := paramcheck.Validate(doc)
//	if err != nil {
//	    return AnnotateError(err, "document_id", id, "operation", "validate")
//	}
//
// Returns nil if err is nil.
func AnnotateError(err error, args ...any) error {
	if err == nil {
		return nil
	}

	r := slog.NewRecord(time.Now(), slog.LevelDebug, "", 0)
	r.Add(args...)

	var errAttrs []slog.Attr

	r.Attrs(func(attr slog.Attr) bool {
		errAttrs = append(errAttrs, attr)

		return true
	})

	return &slogError{
		err:   err,
		attrs: errAttrs,
	}
}

// slogError wraps an error with structured logging attributes. It supports
// unwrapping, so errors.Is and errors.As still see the underlying error.
type slogError struct {
	err   error
	attrs []slog.Attr
}

func (s *slogError) Error() string {
	return s.err.Error()
}

func (s *slogError) Unwrap() error {
	return s.err
}

var _ error = (*slogError)(nil)

// slogErrorLogger is a slog.Handler decorator that extracts the attributes
// embedded in annotated errors (created via AnnotateError) and adds them to
// the log record. All actual logging is delegated to the wrapped handler.
type slogErrorLogger struct {
	inner slog.Handler
}

var _ slog.Handler = (*slogErrorLogger)(nil)

func (s *slogErrorLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return s.inner.Enabled(ctx, level)
}

// Handle scans the record for annotated error attributes. Each one is
// replaced by its underlying error, and the embedded attributes are appended
// to the record. Records without annotated errors pass through untouched.
func (s *slogErrorLogger) Handle(ctx context.Context, record slog.Record) error {
	var (
		baseAttrs []slog.Attr
		errAttrs  []slog.Attr
	)

	record.Attrs(func(attr slog.Attr) bool {
		if err, ok := attr.Value.Any().(error); ok {
			var annotated *slogError

			if errors.As(err, &annotated) {
				baseAttrs = append(baseAttrs, slog.Attr{
					Key:   attr.Key,
					Value: slog.AnyValue(annotated.err),
				})

				errAttrs = append(errAttrs, annotated.attrs...)

				return true
			}
		}

		baseAttrs = append(baseAttrs, attr)

		return true
	})

	if len(errAttrs) > 0 {
		r := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
		r.AddAttrs(baseAttrs...)
		r.AddAttrs(errAttrs...)

		return s.inner.Handle(ctx, r)
	}

	return s.inner.Handle(ctx, record)
}

func (s *slogErrorLogger) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &slogErrorLogger{
		inner: s.inner.WithAttrs(attrs),
	}
}

func (s *slogErrorLogger) WithGroup(name string) slog.Handler {
	return &slogErrorLogger{
		inner: s.inner.WithGroup(name),
	}
}

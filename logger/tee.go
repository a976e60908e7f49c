package logger

import (
	"context"
	"errors"
	"log/slog"
)

// teeHandler fans every record out to a set of handlers. It backs the Bridge
// option, which sends records both to the console and to the OpenTelemetry
// log exporter.
type teeHandler struct {
	handlers []slog.Handler
}

func newTeeHandler(handlers ...slog.Handler) *teeHandler {
	return &teeHandler{handlers: handlers}
}

// Enabled reports whether any of the underlying handlers wants the record.
// Per-handler level filtering happens again inside Handle.
func (t *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range t.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}

	return false
}

// Handle passes the record to every handler that accepts its level and joins
// their errors.
func (t *teeHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error

	for _, handler := range t.handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}

		if err := handler.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (t *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(t.handlers))

	for i, handler := range t.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}

	return &teeHandler{handlers: handlers}
}

func (t *teeHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(t.handlers))

	for i, handler := range t.handlers {
		handlers[i] = handler.WithGroup(name)
	}

	return &teeHandler{handlers: handlers}
}

// Package envutil reads typed configuration from environment variables,
// with per-context overrides for tests and env-file loading for local runs.
// Readers carry their key, presence, and parse outcome, so callers decide at
// the use site whether a variable is required, defaulted, or fatal.
package envutil

import (
	"context"
	"log/slog"
	"strconv"
	"time"
)

// get reads key from the process environment.
func get(key string) Reader[string] {
	return read(context.Background(), key)
}

// String returns a Reader for the given environment variable key.
func String(key string, opts ...Option[string]) Reader[string] {
	return apply(get(key), opts)
}

// StringCtx is String with context overrides applied first.
func StringCtx(ctx context.Context, key string, opts ...Option[string]) Reader[string] {
	return apply(read(ctx, key), opts)
}

// Bool returns a Reader parsing the variable with strconv.ParseBool, so
// "1", "t", "true" and friends all work.
func Bool(key string, opts ...Option[bool]) Reader[bool] {
	return apply(Map(get(key), parseBool), opts)
}

// BoolCtx is Bool with context overrides applied first.
func BoolCtx(ctx context.Context, key string, opts ...Option[bool]) Reader[bool] {
	return apply(Map(read(ctx, key), parseBool), opts)
}

// Int returns a Reader parsing the variable as a base-10 integer.
func Int(key string, opts ...Option[int]) Reader[int] {
	return apply(Map(get(key), parseInt), opts)
}

// IntCtx is Int with context overrides applied first.
func IntCtx(ctx context.Context, key string, opts ...Option[int]) Reader[int] {
	return apply(Map(read(ctx, key), parseInt), opts)
}

// Duration returns a Reader parsing the variable with time.ParseDuration.
func Duration(key string, opts ...Option[time.Duration]) Reader[time.Duration] {
	return apply(Map(get(key), parseDuration), opts)
}

// DurationCtx is Duration with context overrides applied first.
func DurationCtx(ctx context.Context, key string, opts ...Option[time.Duration]) Reader[time.Duration] {
	return apply(Map(read(ctx, key), parseDuration), opts)
}

// SlogLevel returns a Reader parsing the variable as a slog level ("debug",
// "info", "warn", "error", case-insensitive, with slog's +N offsets).
func SlogLevel(key string, opts ...Option[slog.Level]) Reader[slog.Level] {
	return apply(Map(get(key), parseLevel), opts)
}

// SlogLevelCtx is SlogLevel with context overrides applied first.
func SlogLevelCtx(ctx context.Context, key string, opts ...Option[slog.Level]) Reader[slog.Level] {
	return apply(Map(read(ctx, key), parseLevel), opts)
}

func apply[T any](rdr Reader[T], opts []Option[T]) Reader[T] {
	for _, opt := range opts {
		rdr = opt(rdr)
	}

	return rdr
}

func parseBool(s string) (bool, error) {
	return strconv.ParseBool(s)
}

func parseInt(s string) (int, error) {
	value, err := strconv.ParseInt(s, 10, 0)

	return int(value), err
}

func parseDuration(s string) (time.Duration, error) {
	return time.ParseDuration(s)
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level

	err := level.UnmarshalText([]byte(s))

	return level, err
}

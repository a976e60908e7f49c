//nolint:ireturn
package envutil

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
)

var (
	ErrBadEnvVar     = errors.New("error parsing environment variable")
	ErrEnvVarMissing = errors.New("missing environment variable")
)

// Reader represents a value read from an environment variable: its key,
// whether it was set, the parsed value, and any parse error. Readers are
// immutable values; transformations return new Readers.
type Reader[A any] struct {
	key     string
	present bool
	err     error

	value A
}

// Key returns the key of the environment variable.
func (e Reader[A]) Key() string {
	return e.key
}

// Value returns the parsed value, or an error if the variable is missing or
// failed to parse.
func (e Reader[A]) Value() (A, error) {
	if e.err != nil {
		return e.value, fmt.Errorf("%w %s: %w", ErrBadEnvVar, e.key, e.err)
	}

	if !e.present {
		return e.value, fmt.Errorf("%w %s", ErrEnvVarMissing, e.key)
	}

	return e.value, nil
}

// ValueOrElse returns the parsed value, or the given fallback when the
// variable is missing or failed to parse. A parse failure is logged before
// falling back, so a typo'd variable doesn't silently behave like an unset
// one.
func (e Reader[A]) ValueOrElse(fallback A) A {
	if e.present && e.err == nil {
		return e.value
	}

	if e.err != nil {
		slog.Warn("error reading environment variable, using fallback value",
			"key", e.key, "error", e.err, "fallback", fallback)
	}

	return fallback
}

// ValueOrFatal returns the parsed value, or exits the program when the
// variable is missing or failed to parse. Meant for configuration the
// process cannot run without.
func (e Reader[A]) ValueOrFatal() A {
	value, err := e.Value()
	if err != nil {
		slog.Error("error reading environment variable", "key", e.key, "error", err)
		os.Exit(1)
	}

	return value
}

// WithDefault fills in a value for a missing variable. Parse errors are kept
// as errors rather than masked by the default.
func (e Reader[A]) WithDefault(value A) Reader[A] {
	if e.present || e.err != nil {
		return e
	}

	e.present = true
	e.value = value

	return e
}

// HasValue returns true when the variable was set and parsed cleanly.
func (e Reader[A]) HasValue() bool {
	return e.present && e.err == nil
}

// HasError returns true when parsing the variable failed.
func (e Reader[A]) HasError() bool {
	return e.err != nil
}

// Error returns the parse error, if any.
func (e Reader[A]) Error() error {
	return e.err
}

// String renders the reader for diagnostics.
func (e Reader[A]) String() string {
	switch {
	case e.err != nil:
		return fmt.Sprintf("%s=<error: %v>", e.key, e.err)
	case e.present:
		return fmt.Sprintf("%s=%v", e.key, e.value)
	default:
		return e.key + "=<not set>"
	}
}

// Map transforms a Reader's value with f, carrying key, presence, and any
// existing error through unchanged. When f fails, the resulting Reader holds
// the error.
func Map[A, B any](rdr Reader[A], f func(A) (B, error)) Reader[B] {
	out := Reader[B]{
		key:     rdr.key,
		present: rdr.present,
		err:     rdr.err,
	}

	if rdr.present && rdr.err == nil {
		value, err := f(rdr.value)
		if err != nil {
			out.err = err
		} else {
			out.value = value
		}
	}

	return out
}

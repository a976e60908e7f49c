// Package contexts provides small type-safe helpers over context.Context:
// liveness checks, typed value storage, and a flat multi-value wrapper.
//
// The helpers back this module's context plumbing: the spans package stores
// its tracer through WithValue, the tests package tags test contexts through
// WithMultipleValues, and batch checks IsContextAlive before fanning out
// more work.
package contexts

import "context"

// IsContextAlive returns true if the context is neither nil nor done. The
// check is non-blocking.
func IsContextAlive(ctx context.Context) bool {
	if ctx == nil {
		return false
	}

	select {
	case <-ctx.Done():
		return false
	default:
		return true
	}
}

// WithValue is a type-safe wrapper around context.WithValue: the key has
// type K and the value type V, so mismatched reads fail at compile time
// instead of at the type assertion. A nil ctx is replaced with a background
// context.
func WithValue[K any, V any](ctx context.Context, key K, value V) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, key, value)
}

// GetValue is the typed counterpart to WithValue. It returns the value
// stored under key and true, or the zero V and false when the key is
// absent, holds a different type, or ctx is nil.
func GetValue[K any, V any](ctx context.Context, key K) (V, bool) {
	var zero V

	if ctx == nil {
		return zero, false
	}

	val := ctx.Value(key)
	if val == nil {
		return zero, false
	}

	v, ok := val.(V)
	if !ok {
		return zero, false
	}

	return v, true
}

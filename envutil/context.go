package envutil

import (
	"context"
	"os"
)

type envContextKey string

// WithOverride returns a context carrying an override for one environment
// variable. The Ctx reader variants consult overrides before the process
// environment, which lets tests inject configuration without mutating global
// state.
func WithOverride(ctx context.Context, key, value string) context.Context {
	return context.WithValue(ctx, envContextKey(key), value)
}

// read resolves key against context overrides first, then the process
// environment.
func read(ctx context.Context, key string) Reader[string] {
	if value, ok := ctx.Value(envContextKey(key)).(string); ok {
		return Reader[string]{key: key, present: true, value: value}
	}

	value, ok := os.LookupEnv(key)

	return Reader[string]{key: key, present: ok, value: value}
}

package contexts

import (
	"context"
	"fmt"
	"reflect"
	"strings"
)

// WithMultipleValues attaches a batch of key-value pairs to a context in a
// single wrapper, instead of one nested context per value. Lookups check
// the local map first and then fall through to the parent, so parent values
// stay visible and local keys shadow them.
//
// Key must be comparable. Panics on a nil parent or a nil map; an empty map
// is allowed.
//
// Example:
//
//	ctx = contexts.WithMultipleValues[contextKey](t.Context(), map[contextKey]any{
//	    testIdKey:   "test-" + uuid.New().String(),
//	    testNameKey: t.Name(),
//	})
func WithMultipleValues[Key comparable](parent context.Context, vals map[Key]any) context.Context {
	if parent == nil {
		panic("cannot create context from nil parent")
	}

	if vals == nil {
		panic("nil vals passed to WithMultipleValues")
	}

	return &multiValueCtx[Key]{parent, vals}
}

// multiValueCtx embeds the parent context and carries the value map. The
// flat map keeps the context tree shallow, which keeps Value() lookups
// cheap when many pairs are attached at once.
type multiValueCtx[Key comparable] struct {
	context.Context //nolint:containedctx

	vals map[Key]any
}

// stringify renders a value for String() output: Stringer result, the
// string itself, "<nil>", or the type name as a last resort.
func stringify(v any) string {
	switch s := v.(type) {
	case fmt.Stringer:
		return s.String()
	case string:
		return s
	case nil:
		return "<nil>"
	}

	return reflect.TypeOf(v).String()
}

// contextName names a context for String() output, preferring its own
// Stringer over its type name.
func contextName(c context.Context) string {
	if s, ok := c.(fmt.Stringer); ok {
		return s.String()
	}

	return reflect.TypeOf(c).String()
}

// String renders the wrapper for debugging, parent first:
//
//	context.Background.WithMultipleValues(testId=test-42, testName=TestCorpusRun)
//
// Pair order is non-deterministic, following map iteration.
func (c *multiValueCtx[T]) String() string {
	if len(c.vals) == 0 {
		return contextName(c.Context) + ".WithMultipleValues()"
	}

	var builder strings.Builder

	builder.WriteString(contextName(c.Context))
	builder.WriteString(".WithMultipleValues(")

	first := true
	for k, v := range c.vals {
		if !first {
			builder.WriteString(", ")
		}

		first = false

		builder.WriteString(stringify(k))
		builder.WriteString("=")
		builder.WriteString(stringify(v))
	}

	builder.WriteString(")")

	return builder.String()
}

// Value implements context.Context. A key is served from the local map only
// when its dynamic type is exactly the wrapper's Key type; everything else
// falls through to the parent. The strict type check respects the context
// contract, where keys of distinct types never collide.
func (c *multiValueCtx[T]) Value(key any) any {
	if c.vals != nil {
		if reflect.TypeOf(key) == reflect.TypeFor[T]() {
			//nolint:forcetypeassert
			typedKey := key.(T) // Safe because we verified the exact type

			v, found := c.vals[typedKey]
			if found {
				return v
			}
		}
	}

	return c.Context.Value(key)
}

// Package pointer provides helpers for taking addresses of values, for
// struct fields that distinguish absent from a meaningful zero, such as the
// schema contract's numeric bounds and additionalProperties flag.
package pointer

// To returns a pointer to the given value, so literals and expression
// results can feed optional fields directly:
//
//	Minimum: pointer.To(0.0)
//	AdditionalProperties: pointer.To(false)
func To[T any](v T) *T {
	return &v
}

// Value dereferences p, reporting false with the zero value when p is nil.
func Value[T any](p *T) (T, bool) {
	if p == nil {
		var zero T

		return zero, false
	}

	return *p, true
}

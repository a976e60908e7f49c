package envutil

// Option modifies a Reader. The typed constructors (String, Bool, Int, ...)
// accept Options so callers can attach defaults and validation at the read
// site.
type Option[T any] func(Reader[T]) Reader[T]

// Default provides a value for when the variable is not set.
func Default[T any](dfl T) Option[T] {
	return func(rdr Reader[T]) Reader[T] {
		return rdr.WithDefault(dfl)
	}
}

// Validate runs f on the parsed value; an error from f makes the Reader
// erroneous, exactly as if parsing had failed.
func Validate[T any](f func(T) error) Option[T] {
	return func(rdr Reader[T]) Reader[T] {
		return Map(rdr, func(val T) (T, error) {
			return val, f(val)
		})
	}
}

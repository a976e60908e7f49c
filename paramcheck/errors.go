package paramcheck

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"facette.io/natsort"

	"github.com/hydrokit/modelparams/document"
)

// Kind discriminates validation failures. The set of kinds is closed; each
// kind maps to a matching sentinel so callers can discriminate with errors.Is
// without reaching for the structured form.
type Kind string

const (
	// KindUnknownParameter marks a top-level key outside the permitted
	// parameter name set.
	KindUnknownParameter Kind = "unknown_parameter"

	// KindUnsupportedParameter marks a permitted parameter name that carries
	// no representation contract yet, such as land_cover.
	KindUnsupportedParameter Kind = "unsupported_parameter"

	// KindUnknownField marks a field not permitted by the closed field set at
	// its level.
	KindUnknownField Kind = "unknown_field"

	// KindMissingRepresentation marks a parameter body declaring neither
	// scalar nor distribution.
	KindMissingRepresentation Kind = "missing_representation"

	// KindAmbiguousRepresentation marks a parameter body declaring both
	// scalar and distribution.
	KindAmbiguousRepresentation Kind = "ambiguous_representation"

	// KindInvalidType marks a value of the wrong primitive type, e.g. a
	// string where a number is required.
	KindInvalidType Kind = "invalid_type"

	// KindOutOfRange marks a numeric value outside its inclusive bounds.
	KindOutOfRange Kind = "out_of_range"

	// KindInvalidEnum marks a string value outside its closed enumeration.
	KindInvalidEnum Kind = "invalid_enum"

	// KindInvalidRange marks distribution bounds with min exceeding max.
	KindInvalidRange Kind = "invalid_range"

	// KindMissingRequiredField marks a required field absent from a
	// distribution body.
	KindMissingRequiredField Kind = "missing_required_field"
)

// Kinds lists every failure kind, in reporting order.
func Kinds() []Kind {
	return []Kind{
		KindUnknownParameter,
		KindUnsupportedParameter,
		KindUnknownField,
		KindMissingRepresentation,
		KindAmbiguousRepresentation,
		KindInvalidType,
		KindOutOfRange,
		KindInvalidEnum,
		KindInvalidRange,
		KindMissingRequiredField,
	}
}

// Sentinel errors, one per Kind, plus ErrValidation which marks the
// aggregate: errors.Is(err, ErrValidation) reports whether err is a
// validation outcome at all, while the per-kind sentinels discriminate
// individual failures.
var (
	ErrValidation = errors.New("parameter document validation failed")

	ErrUnknownParameter        = errors.New("unknown parameter")
	ErrUnsupportedParameter    = errors.New("parameter not yet supported")
	ErrUnknownField            = errors.New("unknown field")
	ErrMissingRepresentation   = errors.New("missing representation")
	ErrAmbiguousRepresentation = errors.New("ambiguous representation")
	ErrInvalidType             = errors.New("invalid type")
	ErrOutOfRange              = errors.New("value out of range")
	ErrInvalidEnum             = errors.New("value not in enumeration")
	ErrInvalidRange            = errors.New("invalid bound ordering")
	ErrMissingRequiredField    = errors.New("missing required field")
)

// Sentinel returns the sentinel error for the kind.
func (k Kind) Sentinel() error {
	switch k {
	case KindUnknownParameter:
		return ErrUnknownParameter
	case KindUnsupportedParameter:
		return ErrUnsupportedParameter
	case KindUnknownField:
		return ErrUnknownField
	case KindMissingRepresentation:
		return ErrMissingRepresentation
	case KindAmbiguousRepresentation:
		return ErrAmbiguousRepresentation
	case KindInvalidType:
		return ErrInvalidType
	case KindOutOfRange:
		return ErrOutOfRange
	case KindInvalidEnum:
		return ErrInvalidEnum
	case KindInvalidRange:
		return ErrInvalidRange
	case KindMissingRequiredField:
		return ErrMissingRequiredField
	default:
		return ErrValidation
	}
}

// Bounds is an inclusive numeric range.
type Bounds struct {
	Min float64
	Max float64
}

// Error is a single validation failure, located by parameter and, where the
// failure is field-scoped, by field. Only the fields meaningful for the
// failure's Kind are set.
type Error struct {
	// Kind discriminates the failure.
	Kind Kind

	// Parameter is the top-level document key the failure belongs to.
	Parameter string

	// Field locates the failure within the parameter body: the
	// representation key, a distribution field, or the offending key for
	// unknown-field failures. Empty for parameter-level failures.
	Field string

	// Value is the offending value, when one was present.
	Value any

	// Want names the expected type for invalid-type failures.
	Want string

	// Allowed lists the permitted values or keys for closed-set failures.
	Allowed []string

	// Bounds is the permitted range for out-of-range failures.
	Bounds *Bounds

	// Min and Max are the offending pair for invalid-range failures.
	Min int64
	Max int64
}

// Error renders the failure with its location first, so aggregated output
// groups naturally by parameter.
func (e *Error) Error() string {
	loc := fmt.Sprintf("parameter %q", e.Parameter)
	if e.Field != "" {
		loc = fmt.Sprintf("parameter %q, field %q", e.Parameter, e.Field)
	}

	switch e.Kind {
	case KindUnknownParameter:
		return fmt.Sprintf("%s: unknown parameter (known: %s)", loc, strings.Join(e.Allowed, ", "))
	case KindUnsupportedParameter:
		return fmt.Sprintf("%s: recognized but not yet supported", loc)
	case KindUnknownField:
		return fmt.Sprintf("%s: unknown field (allowed: %s)", loc, strings.Join(e.Allowed, ", "))
	case KindMissingRepresentation:
		return fmt.Sprintf("%s: missing representation (exactly one of %s required)",
			loc, strings.Join(e.Allowed, ", "))
	case KindAmbiguousRepresentation:
		return fmt.Sprintf("%s: ambiguous representation (%s are mutually exclusive)",
			loc, strings.Join(e.Allowed, " and "))
	case KindInvalidType:
		return fmt.Sprintf("%s: expected %s, got %s", loc, e.Want, document.TypeName(e.Value))
	case KindOutOfRange:
		if e.Bounds == nil {
			return fmt.Sprintf("%s: value %v out of range", loc, e.Value)
		}

		return fmt.Sprintf("%s: value %v out of range [%v, %v]",
			loc, e.Value, e.Bounds.Min, e.Bounds.Max)
	case KindInvalidEnum:
		return fmt.Sprintf("%s: value %v not one of {%s}", loc, e.Value, strings.Join(e.Allowed, ", "))
	case KindInvalidRange:
		return fmt.Sprintf("%s: min %d exceeds max %d", loc, e.Min, e.Max)
	case KindMissingRequiredField:
		return fmt.Sprintf("%s: required field missing", loc)
	default:
		return fmt.Sprintf("%s: invalid", loc)
	}
}

// Unwrap exposes the kind's sentinel, so errors.Is(err, ErrOutOfRange) and
// friends work on individual failures.
func (e *Error) Unwrap() error {
	return e.Kind.Sentinel()
}

// Errors aggregates every failure found while validating one document,
// ordered by parameter (natural sort), then field, then kind. It unwraps to
// its elements, so errors.Is reaches the per-kind sentinels and errors.As
// surfaces the first structured failure; it also matches ErrValidation.
type Errors struct {
	errs []*Error
}

// Error renders a single failure plainly and multiple failures as a counted,
// line-separated list.
func (e *Errors) Error() string {
	switch len(e.errs) {
	case 0:
		return "no validation errors"
	case 1:
		return e.errs[0].Error()
	default:
		lines := make([]string, 0, len(e.errs))
		for _, err := range e.errs {
			lines = append(lines, err.Error())
		}

		return fmt.Sprintf("%d validation errors:\n%s", len(e.errs), strings.Join(lines, "\n"))
	}
}

// Unwrap exposes the individual failures for errors.Is and errors.As.
func (e *Errors) Unwrap() []error {
	unwrapped := make([]error, len(e.errs))
	for idx, err := range e.errs {
		unwrapped[idx] = err
	}

	return unwrapped
}

// Is matches the ErrValidation marker.
func (e *Errors) Is(target error) bool {
	return target == ErrValidation
}

// All returns the individual failures in reporting order.
func (e *Errors) All() []*Error {
	out := make([]*Error, len(e.errs))
	copy(out, e.errs)

	return out
}

// Len returns the number of failures.
func (e *Errors) Len() int {
	return len(e.errs)
}

// ByParameter returns the failures recorded against one top-level key.
func (e *Errors) ByParameter(name string) []*Error {
	var out []*Error

	for _, err := range e.errs {
		if err.Parameter == name {
			out = append(out, err)
		}
	}

	return out
}

func (e *Errors) add(errs ...*Error) {
	for _, err := range errs {
		if err != nil {
			e.errs = append(e.errs, err)
		}
	}
}

// sortErrors fixes the deterministic reporting order: parameters in natural
// sort order, fields within a parameter likewise, kind as the tiebreak.
func (e *Errors) sortErrors() {
	sort.SliceStable(e.errs, func(i, j int) bool {
		a, b := e.errs[i], e.errs[j]

		if a.Parameter != b.Parameter {
			return natsort.Compare(a.Parameter, b.Parameter)
		}

		if a.Field != b.Field {
			return natsort.Compare(a.Field, b.Field)
		}

		return a.Kind < b.Kind
	})
}

// asError returns the aggregate as an error, or nil when no failures were
// recorded. Returning the concrete type directly would make a nil aggregate
// compare non-nil through the error interface.
func (e *Errors) asError() error {
	if e == nil || len(e.errs) == 0 {
		return nil
	}

	e.sortErrors()

	return e
}

func errUnknownParameter(name string) *Error {
	return &Error{Kind: KindUnknownParameter, Parameter: name, Allowed: knownNameStrings()}
}

func errUnsupportedParameter(name string) *Error {
	return &Error{Kind: KindUnsupportedParameter, Parameter: name}
}

func errUnknownField(param, field string, allowed []string) *Error {
	return &Error{Kind: KindUnknownField, Parameter: param, Field: field, Allowed: allowed}
}

func errMissingRepresentation(param string) *Error {
	return &Error{Kind: KindMissingRepresentation, Parameter: param, Allowed: representationKeys()}
}

func errAmbiguousRepresentation(param string) *Error {
	return &Error{Kind: KindAmbiguousRepresentation, Parameter: param, Allowed: representationKeys()}
}

func errInvalidType(param, field, want string, got any) *Error {
	return &Error{Kind: KindInvalidType, Parameter: param, Field: field, Want: want, Value: got}
}

func errOutOfRange(param, field string, value any, bounds Bounds) *Error {
	return &Error{Kind: KindOutOfRange, Parameter: param, Field: field, Value: value, Bounds: &bounds}
}

func errInvalidEnum(param, field string, value any, allowed []string) *Error {
	return &Error{Kind: KindInvalidEnum, Parameter: param, Field: field, Value: value, Allowed: allowed}
}

func errInvalidRange(param string, minVal, maxVal int64) *Error {
	return &Error{Kind: KindInvalidRange, Parameter: param, Min: minVal, Max: maxVal}
}

func errMissingField(param, field string) *Error {
	return &Error{Kind: KindMissingRequiredField, Parameter: param, Field: field}
}

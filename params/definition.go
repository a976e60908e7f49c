package params

import (
	"encoding/json"
	"errors"
	"fmt"
)

// BoundMin and BoundMax delimit the inclusive numeric range shared by scalar
// values and distribution bounds.
const (
	BoundMin = 0
	BoundMax = 10
)

// Sentinel errors for definition construction. NewDistribution can fail for
// several independent reasons at once; it joins them, so match with
// errors.Is rather than equality.
var (
	ErrUncontractedName = errors.New("parameter carries no representation contract")
	ErrValueOutOfRange  = errors.New("scalar value out of range")
	ErrMinOutOfRange    = errors.New("distribution min out of range")
	ErrMaxOutOfRange    = errors.New("distribution max out of range")
	ErrBoundsInverted   = errors.New("distribution min exceeds max")
	ErrZeroDefinition   = errors.New("zero definition cannot be marshaled")
)

// Scalar is the fixed-value representation of a parameter.
type Scalar struct {
	Value float64
}

// Distribution is the bounded statistical representation of a parameter.
type Distribution struct {
	Min    int64
	Max    int64
	Family Family
}

// Definition is a validated parameter definition: a name bound to exactly one
// representation. The zero Definition is invalid; values are built only
// through NewScalar and NewDistribution, which enforce the numeric and enum
// contracts, so a Definition in hand always satisfies them.
type Definition struct {
	name   Name
	form   Representation
	scalar Scalar
	dist   Distribution
}

// NewScalar builds a scalar definition. The name must carry a contract and
// the value must lie in [BoundMin, BoundMax].
func NewScalar(name Name, value float64) (Definition, error) {
	if err := contractedName(name); err != nil {
		return Definition{}, err
	}

	// Negated form so NaN fails the range check.
	if !(value >= BoundMin && value <= BoundMax) {
		return Definition{}, fmt.Errorf("%w: %v is not in [%d, %d]",
			ErrValueOutOfRange, value, BoundMin, BoundMax)
	}

	return Definition{
		name:   name,
		form:   ScalarForm,
		scalar: Scalar{Value: value},
	}, nil
}

// NewDistribution builds a distribution definition. The name must carry a
// contract; min and max must lie in [BoundMin, BoundMax] with min ≤ max, and
// the family must be a known one. All violated constraints are reported,
// joined into one error.
func NewDistribution(name Name, minBound, maxBound int64, family Family) (Definition, error) {
	if err := contractedName(name); err != nil {
		return Definition{}, err
	}

	var errs []error

	minOK := minBound >= BoundMin && minBound <= BoundMax
	if !minOK {
		errs = append(errs, fmt.Errorf("%w: %d is not in [%d, %d]",
			ErrMinOutOfRange, minBound, BoundMin, BoundMax))
	}

	maxOK := maxBound >= BoundMin && maxBound <= BoundMax
	if !maxOK {
		errs = append(errs, fmt.Errorf("%w: %d is not in [%d, %d]",
			ErrMaxOutOfRange, maxBound, BoundMin, BoundMax))
	}

	// Ordering is only meaningful once both bounds are themselves valid.
	if minOK && maxOK && minBound > maxBound {
		errs = append(errs, fmt.Errorf("%w: %d > %d", ErrBoundsInverted, minBound, maxBound))
	}

	if !family.Known() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownFamily, family))
	}

	if err := errors.Join(errs...); err != nil {
		return Definition{}, err
	}

	return Definition{
		name: name,
		form: DistributionForm,
		dist: Distribution{Min: minBound, Max: maxBound, Family: family},
	}, nil
}

func contractedName(name Name) error {
	if !name.Known() {
		return fmt.Errorf("%w: %q", ErrUnknownName, name)
	}

	if !name.Contracted() {
		return fmt.Errorf("%w: %q", ErrUncontractedName, name)
	}

	return nil
}

// Name returns the parameter the definition belongs to.
func (d Definition) Name() Name {
	return d.name
}

// Form returns the definition's representation form.
func (d Definition) Form() Representation {
	return d.form
}

// IsZero reports whether the definition is the invalid zero value.
func (d Definition) IsZero() bool {
	return d.form == ""
}

// Scalar returns the scalar representation when the definition has one.
func (d Definition) Scalar() (Scalar, bool) {
	if d.form != ScalarForm {
		return Scalar{}, false
	}

	return d.scalar, true
}

// Distribution returns the distribution representation when the definition
// has one.
func (d Definition) Distribution() (Distribution, bool) {
	if d.form != DistributionForm {
		return Distribution{}, false
	}

	return d.dist, true
}

// MarshalJSON renders the definition as its normalized document body, e.g.
// {"scalar": 5} or {"distribution": {"min": 0, "max": 10, "type": "normal"}}.
// The zero Definition cannot be marshaled.
func (d Definition) MarshalJSON() ([]byte, error) {
	switch d.form {
	case ScalarForm:
		return json.Marshal(map[string]any{
			string(ScalarForm): d.scalar.Value,
		})
	case DistributionForm:
		return json.Marshal(map[string]any{
			string(DistributionForm): map[string]any{
				"min":  d.dist.Min,
				"max":  d.dist.Max,
				"type": d.dist.Family,
			},
		})
	default:
		return nil, ErrZeroDefinition
	}
}

// String renders the definition in a compact diagnostic form.
func (d Definition) String() string {
	switch d.form {
	case ScalarForm:
		return fmt.Sprintf("%s: scalar(%v)", d.name, d.scalar.Value)
	case DistributionForm:
		return fmt.Sprintf("%s: distribution(min=%d, max=%d, type=%s)",
			d.name, d.dist.Min, d.dist.Max, d.dist.Family)
	default:
		return fmt.Sprintf("%s: <invalid>", d.name)
	}
}

// Package params defines the domain model for hydrological model parameters:
// the closed set of parameter names a configuration document may declare, the
// two representation forms a parameter may take, and the immutable
// definitions produced by validation.
package params

import (
	"errors"
	"fmt"
	"strings"
)

// Name identifies a model parameter. The set of names is closed: documents
// declaring anything else are rejected.
type Name string

const (
	// HydraulicConductivity is the saturated hydraulic conductivity of the
	// modeled soil column. It carries the full representation contract.
	HydraulicConductivity Name = "hydraulic_conductivity"

	// LandCover is the land cover classification. The name is reserved in the
	// document shape but carries no representation contract yet, so documents
	// declaring it do not validate.
	LandCover Name = "land_cover"
)

// Sentinel errors for name and family lookups.
var (
	ErrUnknownName   = errors.New("unknown parameter name")
	ErrUnknownFamily = errors.New("unknown distribution family")
)

// KnownNames lists every parameter name the document shape permits, in
// natural sort order.
func KnownNames() []Name {
	return []Name{HydraulicConductivity, LandCover}
}

// ContractedNames lists the parameter names that carry a representation
// contract and can therefore produce a Definition.
func ContractedNames() []Name {
	return []Name{HydraulicConductivity}
}

// String returns the name as it appears in documents.
func (n Name) String() string {
	return string(n)
}

// Known reports whether the name belongs to the permitted set.
func (n Name) Known() bool {
	switch n {
	case HydraulicConductivity, LandCover:
		return true
	default:
		return false
	}
}

// Contracted reports whether the name carries a representation contract.
func (n Name) Contracted() bool {
	return n == HydraulicConductivity
}

// NameFromString resolves a parameter name leniently: surrounding whitespace
// is trimmed and matching is case-insensitive. Document validation matches
// keys exactly; this lookup exists for programmatic construction, where
// "Hydraulic_Conductivity " and the canonical spelling should mean the same
// parameter.
func NameFromString(s string) (Name, error) {
	cleaned := strings.ToLower(strings.TrimSpace(s))

	name := Name(cleaned)
	if !name.Known() {
		return "", fmt.Errorf("%w: %q", ErrUnknownName, s)
	}

	return name, nil
}

// Family identifies the statistical family of a distribution parameter. The
// set of families is closed.
type Family string

const (
	// Normal is the Gaussian distribution family.
	Normal Family = "normal"

	// Lognormal is the log-normal distribution family.
	Lognormal Family = "lognormal"
)

// Families lists the permitted distribution families.
func Families() []Family {
	return []Family{Normal, Lognormal}
}

// String returns the family as it appears in documents.
func (f Family) String() string {
	return string(f)
}

// Known reports whether the family belongs to the permitted set.
func (f Family) Known() bool {
	switch f {
	case Normal, Lognormal:
		return true
	default:
		return false
	}
}

// FamilyFromString resolves a distribution family leniently, trimming
// whitespace and ignoring case. Document validation matches family strings
// exactly; this lookup exists for programmatic construction.
func FamilyFromString(s string) (Family, error) {
	cleaned := strings.ToLower(strings.TrimSpace(s))

	family := Family(cleaned)
	if !family.Known() {
		return "", fmt.Errorf("%w: %q", ErrUnknownFamily, s)
	}

	return family, nil
}

// Representation names the form a parameter definition takes. A definition
// has exactly one representation.
type Representation string

const (
	// ScalarForm is a single fixed value.
	ScalarForm Representation = "scalar"

	// DistributionForm is a bounded statistical distribution.
	DistributionForm Representation = "distribution"
)

// Representations lists the two permitted representation forms.
func Representations() []Representation {
	return []Representation{ScalarForm, DistributionForm}
}

// String returns the representation as it appears as a document field key.
func (r Representation) String() string {
	return string(r)
}

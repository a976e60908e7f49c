// Package paramcheck validates hydrological model parameter documents against
// the closed parameter contract: known names only, exactly one representation
// per parameter, closed field sets, and the numeric and enum rules of each
// representation.
//
// Validation is pure and total: any input terminates with either a fully
// validated params.Set or an *Errors aggregate describing every failure
// found, ordered deterministically. Nothing is mutated and no I/O happens
// (Prometheus counters and timers are the only observability effect), so
// Validate is safe for unlimited concurrent use.
package paramcheck

import (
	"errors"
	"time"

	"github.com/hydrokit/modelparams/document"
	"github.com/hydrokit/modelparams/logger"
	"github.com/hydrokit/modelparams/params"
)

// Field keys of a distribution body. The set is closed.
const (
	fieldMin  = "min"
	fieldMax  = "max"
	fieldType = "type"
)

// Validate checks a whole parameter document. On success every declared
// parameter is returned in the Set; on failure the Set is empty and the
// error aggregates every problem found across all parameters, so callers get
// the full picture in one pass rather than one failure per attempt.
//
// A nil or empty document is valid and yields an empty Set.
func Validate(doc document.Map) (params.Set, error) {
	start := time.Now()

	aggregate := &Errors{}
	defs := make([]params.Definition, 0, len(doc))

	for key, body := range doc {
		def, errs := checkParameter(key, body)
		if len(errs) > 0 {
			aggregate.add(errs...)

			continue
		}

		defs = append(defs, def)
	}

	err := aggregate.asError()
	observeValidation(start, aggregate)

	if err != nil {
		return params.Set{}, err
	}

	return params.NewSet(defs...), nil
}

// ValidateParameter checks a single parameter body under its top-level key.
// It applies exactly the rules Validate applies to that parameter and is the
// entry point for callers assembling documents incrementally.
func ValidateParameter(name string, body any) (params.Definition, error) {
	start := time.Now()

	aggregate := &Errors{}

	def, errs := checkParameter(name, body)
	aggregate.add(errs...)

	err := aggregate.asError()
	observeValidation(start, aggregate)

	if err != nil {
		return params.Definition{}, err
	}

	return def, nil
}

// checkParameter runs the full rule chain for one top-level key: name
// membership, body shape, representation detection, then the active
// representation's own rules. Structural failures within the body are all
// collected; a definition is only built when nothing was found.
func checkParameter(key string, body any) (params.Definition, []*Error) {
	name := params.Name(key)

	if !name.Known() {
		return params.Definition{}, []*Error{errUnknownParameter(key)}
	}

	if !name.Contracted() {
		return params.Definition{}, []*Error{errUnsupportedParameter(key)}
	}

	obj, ok := asMapping(body)
	if !ok {
		return params.Definition{}, []*Error{errInvalidType(key, "", "mapping", body)}
	}

	var errs []*Error

	for field := range obj {
		if field != string(params.ScalarForm) && field != string(params.DistributionForm) {
			errs = append(errs, errUnknownField(key, field, representationKeys()))
		}
	}

	scalarRaw, hasScalar := obj[string(params.ScalarForm)]
	distRaw, hasDist := obj[string(params.DistributionForm)]

	var def params.Definition

	switch {
	case hasScalar && hasDist:
		errs = append(errs, errAmbiguousRepresentation(key))
	case !hasScalar && !hasDist:
		errs = append(errs, errMissingRepresentation(key))
	case hasScalar:
		var scalarErrs []*Error

		def, scalarErrs = checkScalar(name, scalarRaw)
		errs = append(errs, scalarErrs...)
	default:
		var distErrs []*Error

		def, distErrs = checkDistribution(name, distRaw)
		errs = append(errs, distErrs...)
	}

	if len(errs) == 0 {
		if !def.IsZero() {
			return def, nil
		}

		// A parameter must never pass without a definition.
		logger.Get().Warn("parameter produced no definition and no failures",
			"parameter", key)

		errs = append(errs, errInvalidType(key, "", "valid parameter body", body))
	}

	return params.Definition{}, errs
}

// checkScalar validates the scalar representation: the value must be numeric
// and inside the contract bounds. The range rule itself lives in
// params.NewScalar; a constructor failure here can only be the range check,
// since the name contract was already enforced.
func checkScalar(name params.Name, raw any) (params.Definition, []*Error) {
	value, ok := document.Number(raw)
	if !ok {
		return params.Definition{}, []*Error{
			errInvalidType(name.String(), string(params.ScalarForm), "number", raw),
		}
	}

	def, err := params.NewScalar(name, value)
	if err != nil {
		return params.Definition{}, []*Error{
			errOutOfRange(name.String(), string(params.ScalarForm), value, contractBounds()),
		}
	}

	return def, nil
}

// checkDistribution validates the distribution representation in two layers:
// first the body structure (closed field set, required fields, field types),
// then, only once the structure is sound, the value rules, which live in
// params.NewDistribution and are translated back into positional failures.
func checkDistribution(name params.Name, raw any) (params.Definition, []*Error) {
	obj, ok := asMapping(raw)
	if !ok {
		return params.Definition{}, []*Error{
			errInvalidType(name.String(), string(params.DistributionForm), "mapping", raw),
		}
	}

	var errs []*Error

	for field := range obj {
		switch field {
		case fieldMin, fieldMax, fieldType:
		default:
			errs = append(errs, errUnknownField(name.String(), field, distributionKeys()))
		}
	}

	var (
		minVal int64
		maxVal int64
		family string
	)

	minRaw, hasMin := obj[fieldMin]

	switch {
	case !hasMin:
		errs = append(errs, errMissingField(name.String(), fieldMin))
	default:
		if v, ok := document.Integer(minRaw); ok {
			minVal = v
		} else {
			errs = append(errs, errInvalidType(name.String(), fieldMin, "integer", minRaw))
		}
	}

	maxRaw, hasMax := obj[fieldMax]

	switch {
	case !hasMax:
		errs = append(errs, errMissingField(name.String(), fieldMax))
	default:
		if v, ok := document.Integer(maxRaw); ok {
			maxVal = v
		} else {
			errs = append(errs, errInvalidType(name.String(), fieldMax, "integer", maxRaw))
		}
	}

	typeRaw, hasType := obj[fieldType]

	switch {
	case !hasType:
		errs = append(errs, errMissingField(name.String(), fieldType))
	default:
		if s, ok := typeRaw.(string); ok {
			family = s
		} else {
			errs = append(errs, errInvalidType(name.String(), fieldType, "string", typeRaw))
		}
	}

	// Value rules run only against a structurally sound body.
	if len(errs) > 0 {
		return params.Definition{}, errs
	}

	def, err := params.NewDistribution(name, minVal, maxVal, params.Family(family))
	if err != nil {
		return params.Definition{}, translateDefinitionErr(name.String(), err, minVal, maxVal, family)
	}

	return def, nil
}

// translateDefinitionErr maps the constructor's joined sentinels onto
// positional failures. The switch covers the constructor's whole value-rule
// surface; the name sentinels cannot occur because the name was checked
// before dispatch.
func translateDefinitionErr(param string, err error, minVal, maxVal int64, family string) []*Error {
	var errs []*Error

	for _, cause := range unwrapJoined(err) {
		switch {
		case errors.Is(cause, params.ErrMinOutOfRange):
			errs = append(errs, errOutOfRange(param, fieldMin, minVal, contractBounds()))
		case errors.Is(cause, params.ErrMaxOutOfRange):
			errs = append(errs, errOutOfRange(param, fieldMax, maxVal, contractBounds()))
		case errors.Is(cause, params.ErrBoundsInverted):
			errs = append(errs, errInvalidRange(param, minVal, maxVal))
		case errors.Is(cause, params.ErrUnknownFamily):
			errs = append(errs, errInvalidEnum(param, fieldType, family, familyStrings()))
		}
	}

	return errs
}

// unwrapJoined flattens an errors.Join result; a plain error comes back as a
// single-element slice.
func unwrapJoined(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}

	return []error{err}
}

// asMapping reports v as a string-keyed mapping. Hand-assembled documents may
// nest document.Map values where decoded ones carry map[string]any.
func asMapping(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case document.Map:
		return m, true
	default:
		return nil, false
	}
}

// contractBounds is the inclusive range shared by scalar values and
// distribution bounds.
func contractBounds() Bounds {
	return Bounds{Min: params.BoundMin, Max: params.BoundMax}
}

// representationKeys lists the permitted parameter body fields, sorted.
func representationKeys() []string {
	return []string{string(params.DistributionForm), string(params.ScalarForm)}
}

// distributionKeys lists the permitted distribution body fields, sorted.
func distributionKeys() []string {
	return []string{fieldMax, fieldMin, fieldType}
}

// familyStrings lists the permitted distribution families in declaration
// order.
func familyStrings() []string {
	families := params.Families()

	out := make([]string, len(families))
	for idx, family := range families {
		out[idx] = string(family)
	}

	return out
}

// knownNameStrings lists the permitted parameter names.
func knownNameStrings() []string {
	names := params.KnownNames()

	out := make([]string, len(names))
	for idx, name := range names {
		out[idx] = string(name)
	}

	return out
}

package params

import (
	"encoding/json"

	"facette.io/natsort"
)

// Set is an immutable collection of validated definitions, at most one per
// parameter name. The zero Set is empty and usable.
type Set struct {
	defs map[Name]Definition
}

// NewSet collects definitions into a Set. Zero definitions are skipped; when
// the same name appears more than once, the last definition wins.
func NewSet(defs ...Definition) Set {
	collected := make(map[Name]Definition, len(defs))

	for _, def := range defs {
		if def.IsZero() {
			continue
		}

		collected[def.name] = def
	}

	return Set{defs: collected}
}

// Len returns the number of definitions in the set.
func (s Set) Len() int {
	return len(s.defs)
}

// Contains reports whether the set holds a definition for name.
func (s Set) Contains(name Name) bool {
	_, ok := s.defs[name]

	return ok
}

// Get returns the definition for name, if the set holds one.
func (s Set) Get(name Name) (Definition, bool) {
	def, ok := s.defs[name]

	return def, ok
}

// Names lists the parameter names in the set in natural sort order, so
// diagnostics and serialized forms are deterministic.
func (s Set) Names() []Name {
	items := make([]string, 0, len(s.defs))
	for name := range s.defs {
		items = append(items, string(name))
	}

	natsort.Sort(items)

	names := make([]Name, len(items))
	for idx, item := range items {
		names[idx] = Name(item)
	}

	return names
}

// Definitions lists the definitions in the set, ordered by Names.
func (s Set) Definitions() []Definition {
	defs := make([]Definition, 0, len(s.defs))
	for _, name := range s.Names() {
		defs = append(defs, s.defs[name])
	}

	return defs
}

// MarshalJSON renders the set as a normalized parameter document: an object
// keyed by parameter name whose bodies carry exactly one representation.
func (s Set) MarshalJSON() ([]byte, error) {
	doc := make(map[string]Definition, len(s.defs))
	for name, def := range s.defs {
		doc[string(name)] = def
	}

	return json.Marshal(doc)
}

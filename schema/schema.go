// Package schema exports the JSON Schema contract for parameter documents.
//
// The contract mirrors what paramcheck.Validate accepts: the closed set of
// parameter names, a scalar or distribution body per contracted parameter,
// and the shared numeric bounds. It is the machine-readable companion to the
// validator for editors and pipelines that cannot link this module.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/hydrokit/modelparams/lazy"
	"github.com/hydrokit/modelparams/params"
	"github.com/hydrokit/modelparams/pointer"
)

// draft is the JSON Schema dialect the contract is written in.
const draft = "http://json-schema.org/draft-07/schema#"

// Schema is the subset of JSON Schema draft-07 keywords the contract uses.
// Struct fields marshal in declaration order and map keys marshal sorted, so
// the rendered document is byte-stable across runs.
type Schema struct {
	Dialect              string             `json:"$schema,omitempty"`
	Title                string             `json:"title,omitempty"`
	Type                 string             `json:"type,omitempty"`
	Enum                 []string           `json:"enum,omitempty"`
	Minimum              *float64           `json:"minimum,omitempty"`
	Maximum              *float64           `json:"maximum,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty"`
	PropertyNames        *Schema            `json:"propertyNames,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties *bool              `json:"additionalProperties,omitempty"`
	OneOf                []*Schema          `json:"oneOf,omitempty"`
	Not                  *Schema            `json:"not,omitempty"`
}

var contract = lazy.New[*Schema](buildContract)

// Contract returns the schema for parameter documents. The document is built
// once and shared; callers must not mutate it.
func Contract() *Schema {
	return contract.Get()
}

// JSON renders the contract as an indented JSON document, as printed by the
// command line tool.
func JSON() ([]byte, error) {
	data, err := json.MarshalIndent(Contract(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("rendering parameter schema: %w", err)
	}

	return data, nil
}

func buildContract() *Schema {
	names := params.KnownNames()

	properties := make(map[string]*Schema, len(names))

	for _, name := range names {
		if name.Contracted() {
			properties[name.String()] = definitionSchema()
		} else {
			// Recognized but without a representation contract yet: the
			// name is legal, no body validates. Matches the verdict
			// Validate gives for such parameters.
			properties[name.String()] = &Schema{Not: &Schema{}}
		}
	}

	return &Schema{
		Dialect:              draft,
		Title:                "Hydrological model parameters",
		Type:                 "object",
		Properties:           properties,
		PropertyNames:        &Schema{Enum: nameStrings(names)},
		AdditionalProperties: pointer.To(false),
	}
}

// definitionSchema describes the body of a contracted parameter: exactly one
// of the scalar and distribution forms.
func definitionSchema() *Schema {
	return &Schema{
		Type:  "object",
		OneOf: []*Schema{scalarSchema(), distributionSchema()},
	}
}

func scalarSchema() *Schema {
	return &Schema{
		Type: "object",
		Properties: map[string]*Schema{
			string(params.ScalarForm): {
				Type:    "number",
				Minimum: pointer.To(float64(params.BoundMin)),
				Maximum: pointer.To(float64(params.BoundMax)),
			},
		},
		Required:             []string{string(params.ScalarForm)},
		AdditionalProperties: pointer.To(false),
	}
}

// distributionSchema covers everything draft-07 can express about the
// distribution form. The ordering rule min <= max has no draft-07 keyword
// and stays with Validate.
func distributionSchema() *Schema {
	return &Schema{
		Type: "object",
		Properties: map[string]*Schema{
			string(params.DistributionForm): {
				Type: "object",
				Properties: map[string]*Schema{
					"min": boundSchema(),
					"max": boundSchema(),
					"type": {
						Type: "string",
						Enum: familyStrings(params.Families()),
					},
				},
				Required:             []string{"min", "max", "type"},
				AdditionalProperties: pointer.To(false),
			},
		},
		Required:             []string{string(params.DistributionForm)},
		AdditionalProperties: pointer.To(false),
	}
}

func boundSchema() *Schema {
	return &Schema{
		Type:    "integer",
		Minimum: pointer.To(float64(params.BoundMin)),
		Maximum: pointer.To(float64(params.BoundMax)),
	}
}

func nameStrings(names []params.Name) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = name.String()
	}

	return out
}

func familyStrings(families []params.Family) []string {
	out := make([]string, len(families))
	for i, family := range families {
		out[i] = family.String()
	}

	return out
}

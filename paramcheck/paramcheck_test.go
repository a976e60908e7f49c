package paramcheck

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydrokit/modelparams/document"
	"github.com/hydrokit/modelparams/params"
)

// mustValidate validates a document that is expected to be well formed.
func mustValidate(t *testing.T, doc document.Map) params.Set {
	t.Helper()

	set, err := Validate(doc)
	require.NoError(t, err)

	return set
}

// failValidate validates a document that is expected to fail and returns the
// aggregate.
func failValidate(t *testing.T, doc document.Map) *Errors {
	t.Helper()

	set, err := Validate(doc)
	require.Error(t, err)
	assert.Equal(t, 0, set.Len())

	var aggregate *Errors

	require.ErrorAs(t, err, &aggregate)

	return aggregate
}

func kindsOf(aggregate *Errors) []Kind {
	kinds := make([]Kind, 0, aggregate.Len())
	for _, failure := range aggregate.All() {
		kinds = append(kinds, failure.Kind)
	}

	return kinds
}

func TestValidateScalar(t *testing.T) {
	t.Parallel()

	t.Run("valid values round-trip", func(t *testing.T) {
		t.Parallel()

		for _, value := range []float64{0, 0.001, 2.5, 5, 9.999, 10} {
			doc := document.Map{
				"hydraulic_conductivity": map[string]any{"scalar": value},
			}

			set := mustValidate(t, doc)
			require.Equal(t, 1, set.Len())

			def, ok := set.Get(params.HydraulicConductivity)
			require.True(t, ok)
			assert.Equal(t, params.ScalarForm, def.Form())

			scalar, ok := def.Scalar()
			require.True(t, ok)
			assert.InDelta(t, value, scalar.Value, 0)
		}
	})

	t.Run("integer spelling accepted", func(t *testing.T) {
		t.Parallel()

		doc, err := document.DecodeJSON([]byte(`{"hydraulic_conductivity": {"scalar": 5}}`))
		require.NoError(t, err)

		set := mustValidate(t, doc)

		def, ok := set.Get(params.HydraulicConductivity)
		require.True(t, ok)

		scalar, ok := def.Scalar()
		require.True(t, ok)
		assert.InDelta(t, 5.0, scalar.Value, 0)
	})

	t.Run("out of range", func(t *testing.T) {
		t.Parallel()

		for _, value := range []float64{-0.001, -1, 10.001, 99} {
			doc := document.Map{
				"hydraulic_conductivity": map[string]any{"scalar": value},
			}

			aggregate := failValidate(t, doc)
			require.Equal(t, 1, aggregate.Len())

			failure := aggregate.All()[0]
			assert.Equal(t, KindOutOfRange, failure.Kind)
			assert.Equal(t, "hydraulic_conductivity", failure.Parameter)
			assert.Equal(t, "scalar", failure.Field)
			assert.InDelta(t, value, failure.Value.(float64), 0)
			require.NotNil(t, failure.Bounds)
			assert.InDelta(t, 0.0, failure.Bounds.Min, 0)
			assert.InDelta(t, 10.0, failure.Bounds.Max, 0)
		}
	})

	t.Run("non-numeric value", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name  string
			value any
		}{
			{name: "string", value: "5"},
			{name: "boolean", value: true},
			{name: "null", value: nil},
			{name: "array", value: []any{5}},
			{name: "object", value: map[string]any{"v": 5}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				doc := document.Map{
					"hydraulic_conductivity": map[string]any{"scalar": tt.value},
				}

				aggregate := failValidate(t, doc)
				require.Equal(t, 1, aggregate.Len())

				failure := aggregate.All()[0]
				assert.Equal(t, KindInvalidType, failure.Kind)
				assert.Equal(t, "scalar", failure.Field)
				assert.Equal(t, "number", failure.Want)
			})
		}
	})
}

func TestValidateDistribution(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		doc := document.Map{
			"hydraulic_conductivity": map[string]any{
				"distribution": map[string]any{"min": 0, "max": 10, "type": "normal"},
			},
		}

		set := mustValidate(t, doc)

		def, ok := set.Get(params.HydraulicConductivity)
		require.True(t, ok)
		assert.Equal(t, params.DistributionForm, def.Form())

		dist, ok := def.Distribution()
		require.True(t, ok)
		assert.Equal(t, params.Distribution{Min: 0, Max: 10, Family: params.Normal}, dist)
	})

	t.Run("degenerate range", func(t *testing.T) {
		t.Parallel()

		doc := document.Map{
			"hydraulic_conductivity": map[string]any{
				"distribution": map[string]any{"min": 4, "max": 4, "type": "lognormal"},
			},
		}

		set := mustValidate(t, doc)
		assert.Equal(t, 1, set.Len())
	})

	t.Run("integral float bounds accepted", func(t *testing.T) {
		t.Parallel()

		doc := document.Map{
			"hydraulic_conductivity": map[string]any{
				"distribution": map[string]any{"min": 1.0, "max": 9.0, "type": "normal"},
			},
		}

		set := mustValidate(t, doc)

		def, _ := set.Get(params.HydraulicConductivity)
		dist, ok := def.Distribution()
		require.True(t, ok)
		assert.Equal(t, int64(1), dist.Min)
		assert.Equal(t, int64(9), dist.Max)
	})

	t.Run("missing fields reported individually", func(t *testing.T) {
		t.Parallel()

		doc := document.Map{
			"hydraulic_conductivity": map[string]any{
				"distribution": map[string]any{"min": 0},
			},
		}

		aggregate := failValidate(t, doc)
		assert.Equal(t, []Kind{KindMissingRequiredField, KindMissingRequiredField}, kindsOf(aggregate))

		fields := []string{aggregate.All()[0].Field, aggregate.All()[1].Field}
		assert.Equal(t, []string{"max", "type"}, fields)
	})

	t.Run("missing type only", func(t *testing.T) {
		t.Parallel()

		doc := document.Map{
			"hydraulic_conductivity": map[string]any{
				"distribution": map[string]any{"min": 0, "max": 10},
			},
		}

		aggregate := failValidate(t, doc)
		require.Equal(t, 1, aggregate.Len())

		failure := aggregate.All()[0]
		assert.Equal(t, KindMissingRequiredField, failure.Kind)
		assert.Equal(t, "type", failure.Field)
	})

	t.Run("fractional bounds rejected", func(t *testing.T) {
		t.Parallel()

		doc := document.Map{
			"hydraulic_conductivity": map[string]any{
				"distribution": map[string]any{"min": 1.5, "max": 9, "type": "normal"},
			},
		}

		aggregate := failValidate(t, doc)
		require.Equal(t, 1, aggregate.Len())

		failure := aggregate.All()[0]
		assert.Equal(t, KindInvalidType, failure.Kind)
		assert.Equal(t, "min", failure.Field)
		assert.Equal(t, "integer", failure.Want)
	})

	t.Run("bounds out of range", func(t *testing.T) {
		t.Parallel()

		doc := document.Map{
			"hydraulic_conductivity": map[string]any{
				"distribution": map[string]any{"min": -1, "max": 11, "type": "normal"},
			},
		}

		aggregate := failValidate(t, doc)
		assert.Equal(t, []Kind{KindOutOfRange, KindOutOfRange}, kindsOf(aggregate))

		// Sorted by field: max before min.
		assert.Equal(t, "max", aggregate.All()[0].Field)
		assert.Equal(t, int64(11), aggregate.All()[0].Value)
		assert.Equal(t, "min", aggregate.All()[1].Field)
		assert.Equal(t, int64(-1), aggregate.All()[1].Value)
	})

	t.Run("inverted bounds", func(t *testing.T) {
		t.Parallel()

		doc := document.Map{
			"hydraulic_conductivity": map[string]any{
				"distribution": map[string]any{"min": 7, "max": 3, "type": "normal"},
			},
		}

		aggregate := failValidate(t, doc)
		require.Equal(t, 1, aggregate.Len())

		failure := aggregate.All()[0]
		assert.Equal(t, KindInvalidRange, failure.Kind)
		assert.Equal(t, int64(7), failure.Min)
		assert.Equal(t, int64(3), failure.Max)
	})

	t.Run("inverted bounds not reported when a bound is out of range", func(t *testing.T) {
		t.Parallel()

		doc := document.Map{
			"hydraulic_conductivity": map[string]any{
				"distribution": map[string]any{"min": 11, "max": 2, "type": "normal"},
			},
		}

		aggregate := failValidate(t, doc)
		assert.Equal(t, []Kind{KindOutOfRange}, kindsOf(aggregate))
	})

	t.Run("unknown family", func(t *testing.T) {
		t.Parallel()

		doc := document.Map{
			"hydraulic_conductivity": map[string]any{
				"distribution": map[string]any{"min": 0, "max": 10, "type": "gamma"},
			},
		}

		aggregate := failValidate(t, doc)
		require.Equal(t, 1, aggregate.Len())

		failure := aggregate.All()[0]
		assert.Equal(t, KindInvalidEnum, failure.Kind)
		assert.Equal(t, "type", failure.Field)
		assert.Equal(t, "gamma", failure.Value)
		assert.Equal(t, []string{"normal", "lognormal"}, failure.Allowed)
	})

	t.Run("family matching is exact", func(t *testing.T) {
		t.Parallel()

		doc := document.Map{
			"hydraulic_conductivity": map[string]any{
				"distribution": map[string]any{"min": 0, "max": 10, "type": "Normal"},
			},
		}

		aggregate := failValidate(t, doc)
		assert.Equal(t, []Kind{KindInvalidEnum}, kindsOf(aggregate))
	})

	t.Run("non-string family", func(t *testing.T) {
		t.Parallel()

		doc := document.Map{
			"hydraulic_conductivity": map[string]any{
				"distribution": map[string]any{"min": 0, "max": 10, "type": 3},
			},
		}

		aggregate := failValidate(t, doc)
		require.Equal(t, 1, aggregate.Len())

		failure := aggregate.All()[0]
		assert.Equal(t, KindInvalidType, failure.Kind)
		assert.Equal(t, "type", failure.Field)
		assert.Equal(t, "string", failure.Want)
	})

	t.Run("extra field", func(t *testing.T) {
		t.Parallel()

		doc := document.Map{
			"hydraulic_conductivity": map[string]any{
				"distribution": map[string]any{
					"min": 0, "max": 10, "type": "normal", "stddev": 2,
				},
			},
		}

		aggregate := failValidate(t, doc)
		require.Equal(t, 1, aggregate.Len())

		failure := aggregate.All()[0]
		assert.Equal(t, KindUnknownField, failure.Kind)
		assert.Equal(t, "stddev", failure.Field)
		assert.Equal(t, []string{"max", "min", "type"}, failure.Allowed)
	})

	t.Run("structure reported before values", func(t *testing.T) {
		t.Parallel()

		// min is out of range, but the missing type field is the layer that
		// gets reported first.
		doc := document.Map{
			"hydraulic_conductivity": map[string]any{
				"distribution": map[string]any{"min": -5, "max": 10},
			},
		}

		aggregate := failValidate(t, doc)
		assert.Equal(t, []Kind{KindMissingRequiredField}, kindsOf(aggregate))
	})

	t.Run("body not a mapping", func(t *testing.T) {
		t.Parallel()

		doc := document.Map{
			"hydraulic_conductivity": map[string]any{"distribution": "normal"},
		}

		aggregate := failValidate(t, doc)
		require.Equal(t, 1, aggregate.Len())

		failure := aggregate.All()[0]
		assert.Equal(t, KindInvalidType, failure.Kind)
		assert.Equal(t, "distribution", failure.Field)
		assert.Equal(t, "mapping", failure.Want)
	})
}

func TestValidateDocument(t *testing.T) {
	t.Parallel()

	t.Run("nil document", func(t *testing.T) {
		t.Parallel()

		set, err := Validate(nil)
		require.NoError(t, err)
		assert.Equal(t, 0, set.Len())
	})

	t.Run("empty document", func(t *testing.T) {
		t.Parallel()

		set, err := Validate(document.Map{})
		require.NoError(t, err)
		assert.Equal(t, 0, set.Len())
	})

	t.Run("unknown parameter", func(t *testing.T) {
		t.Parallel()

		doc := document.Map{"soil_depth": map[string]any{"scalar": 1}}

		aggregate := failValidate(t, doc)
		require.Equal(t, 1, aggregate.Len())

		failure := aggregate.All()[0]
		assert.Equal(t, KindUnknownParameter, failure.Kind)
		assert.Equal(t, "soil_depth", failure.Parameter)
		assert.Equal(t, []string{"hydraulic_conductivity", "land_cover"}, failure.Allowed)
	})

	t.Run("parameter name matching is exact", func(t *testing.T) {
		t.Parallel()

		doc := document.Map{"Hydraulic_Conductivity": map[string]any{"scalar": 1}}

		aggregate := failValidate(t, doc)
		assert.Equal(t, []Kind{KindUnknownParameter}, kindsOf(aggregate))
	})

	t.Run("land cover is recognized but unsupported", func(t *testing.T) {
		t.Parallel()

		doc := document.Map{"land_cover": map[string]any{"scalar": 1}}

		aggregate := failValidate(t, doc)
		require.Equal(t, 1, aggregate.Len())

		failure := aggregate.All()[0]
		assert.Equal(t, KindUnsupportedParameter, failure.Kind)
		assert.Equal(t, "land_cover", failure.Parameter)
	})

	t.Run("ambiguous representation", func(t *testing.T) {
		t.Parallel()

		doc := document.Map{
			"hydraulic_conductivity": map[string]any{
				"scalar": 5,
				"distribution": map[string]any{
					"min": 0, "max": 10, "type": "normal",
				},
			},
		}

		aggregate := failValidate(t, doc)
		assert.Equal(t, []Kind{KindAmbiguousRepresentation}, kindsOf(aggregate))
	})

	t.Run("missing representation", func(t *testing.T) {
		t.Parallel()

		doc := document.Map{"hydraulic_conductivity": map[string]any{}}

		aggregate := failValidate(t, doc)
		require.Equal(t, 1, aggregate.Len())

		failure := aggregate.All()[0]
		assert.Equal(t, KindMissingRepresentation, failure.Kind)
		assert.Equal(t, []string{"distribution", "scalar"}, failure.Allowed)
	})

	t.Run("unknown body field alongside valid scalar", func(t *testing.T) {
		t.Parallel()

		doc := document.Map{
			"hydraulic_conductivity": map[string]any{"scalar": 5, "units": "m/s"},
		}

		aggregate := failValidate(t, doc)
		require.Equal(t, 1, aggregate.Len())

		failure := aggregate.All()[0]
		assert.Equal(t, KindUnknownField, failure.Kind)
		assert.Equal(t, "units", failure.Field)
		assert.Equal(t, []string{"distribution", "scalar"}, failure.Allowed)
	})

	t.Run("body not a mapping", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name string
			body any
		}{
			{name: "number", body: 5},
			{name: "string", body: "scalar"},
			{name: "null", body: nil},
			{name: "array", body: []any{1, 2}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				aggregate := failValidate(t, document.Map{"hydraulic_conductivity": tt.body})
				require.Equal(t, 1, aggregate.Len())

				failure := aggregate.All()[0]
				assert.Equal(t, KindInvalidType, failure.Kind)
				assert.Equal(t, "", failure.Field)
				assert.Equal(t, "mapping", failure.Want)
			})
		}
	})

	t.Run("failures aggregate across parameters in order", func(t *testing.T) {
		t.Parallel()

		doc := document.Map{
			"soil_depth": map[string]any{"scalar": 1},
			"land_cover": map[string]any{"scalar": 2},
			"hydraulic_conductivity": map[string]any{
				"distribution": map[string]any{"min": -1, "max": 11, "type": "gamma"},
			},
		}

		aggregate := failValidate(t, doc)
		assert.Equal(t, []Kind{
			KindOutOfRange,           // hydraulic_conductivity, max
			KindOutOfRange,           // hydraulic_conductivity, min
			KindInvalidEnum,          // hydraulic_conductivity, type
			KindUnsupportedParameter, // land_cover
			KindUnknownParameter,     // soil_depth
		}, kindsOf(aggregate))

		names := make([]string, 0, aggregate.Len())
		for _, failure := range aggregate.All() {
			names = append(names, failure.Parameter)
		}

		assert.Equal(t, []string{
			"hydraulic_conductivity",
			"hydraulic_conductivity",
			"hydraulic_conductivity",
			"land_cover",
			"soil_depth",
		}, names)
	})

	t.Run("one bad parameter fails the document", func(t *testing.T) {
		t.Parallel()

		doc := document.Map{
			"hydraulic_conductivity": map[string]any{"scalar": 5},
			"soil_depth":             map[string]any{"scalar": 1},
		}

		set, err := Validate(doc)
		require.Error(t, err)
		assert.Equal(t, 0, set.Len())
	})

	t.Run("deterministic across repeated runs", func(t *testing.T) {
		t.Parallel()

		doc := document.Map{
			"soil_depth": map[string]any{"scalar": 1},
			"hydraulic_conductivity": map[string]any{
				"distribution": map[string]any{"min": 7, "max": 3, "type": "gamma"},
			},
		}

		_, first := Validate(doc)
		require.Error(t, first)

		for range 10 {
			_, again := Validate(doc)
			require.Error(t, again)
			assert.Equal(t, first.Error(), again.Error())
		}
	})

	t.Run("validating a marshaled set round-trips", func(t *testing.T) {
		t.Parallel()

		doc, err := document.DecodeJSON([]byte(
			`{"hydraulic_conductivity": {"distribution": {"min": 2, "max": 8, "type": "lognormal"}}}`,
		))
		require.NoError(t, err)

		set := mustValidate(t, doc)

		data, err := set.MarshalJSON()
		require.NoError(t, err)

		redecoded, err := document.DecodeJSON(data)
		require.NoError(t, err)

		again := mustValidate(t, redecoded)
		assert.Equal(t, set, again)
	})

	t.Run("json and yaml documents validate identically", func(t *testing.T) {
		t.Parallel()

		fromJSON, err := document.DecodeJSON([]byte(
			`{"hydraulic_conductivity": {"scalar": 5}}`,
		))
		require.NoError(t, err)

		fromYAML, err := document.DecodeYAML([]byte(
			"hydraulic_conductivity:\n  scalar: 5\n",
		))
		require.NoError(t, err)

		setJSON := mustValidate(t, fromJSON)
		setYAML := mustValidate(t, fromYAML)

		assert.Equal(t, setJSON, setYAML)
	})
}

func TestValidateParameter(t *testing.T) {
	t.Parallel()

	t.Run("valid scalar", func(t *testing.T) {
		t.Parallel()

		def, err := ValidateParameter("hydraulic_conductivity", map[string]any{"scalar": 2.5})
		require.NoError(t, err)
		assert.Equal(t, params.HydraulicConductivity, def.Name())
	})

	t.Run("unknown name", func(t *testing.T) {
		t.Parallel()

		def, err := ValidateParameter("porosity", map[string]any{"scalar": 1})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownParameter)
		assert.True(t, def.IsZero())
	})

	t.Run("nil body", func(t *testing.T) {
		t.Parallel()

		_, err := ValidateParameter("hydraulic_conductivity", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidType)
	})

	t.Run("matches document-level validation", func(t *testing.T) {
		t.Parallel()

		body := map[string]any{
			"distribution": map[string]any{"min": 7, "max": 3, "type": "normal"},
		}

		_, direct := ValidateParameter("hydraulic_conductivity", body)
		_, whole := Validate(document.Map{"hydraulic_conductivity": body})

		require.Error(t, direct)
		require.Error(t, whole)
		assert.Equal(t, whole.Error(), direct.Error())
	})
}

func TestValidateErrorMatching(t *testing.T) {
	t.Parallel()

	doc := document.Map{
		"soil_depth": map[string]any{"scalar": 1},
		"hydraulic_conductivity": map[string]any{
			"scalar": 99,
		},
	}

	_, err := Validate(doc)
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.ErrorIs(t, err, ErrUnknownParameter)
	assert.NotErrorIs(t, err, ErrInvalidEnum)

	var failure *Error

	require.ErrorAs(t, err, &failure)
	assert.Equal(t, KindOutOfRange, failure.Kind)

	var aggregate *Errors

	require.ErrorAs(t, err, &aggregate)
	assert.Equal(t, 2, aggregate.Len())
	assert.Len(t, aggregate.ByParameter("hydraulic_conductivity"), 1)
	assert.Len(t, aggregate.ByParameter("soil_depth"), 1)
	assert.Empty(t, aggregate.ByParameter("land_cover"))
}

func TestValidateConcurrent(t *testing.T) {
	t.Parallel()

	valid := document.Map{
		"hydraulic_conductivity": map[string]any{
			"distribution": map[string]any{"min": 0, "max": 10, "type": "normal"},
		},
	}
	invalid := document.Map{
		"hydraulic_conductivity": map[string]any{"scalar": 99},
	}

	var wg sync.WaitGroup

	for range 16 {
		wg.Add(2)

		go func() {
			defer wg.Done()

			for range 100 {
				set, err := Validate(valid)
				assert.NoError(t, err)
				assert.Equal(t, 1, set.Len())
			}
		}()

		go func() {
			defer wg.Done()

			for range 100 {
				_, err := Validate(invalid)
				assert.Error(t, err)
			}
		}()
	}

	wg.Wait()
}

func ExampleValidate() {
	doc, _ := document.DecodeJSON([]byte(`{"hydraulic_conductivity": {"scalar": 99}}`))

	_, err := Validate(doc)
	fmt.Println(err)
	// Output: parameter "hydraulic_conductivity", field "scalar": value 99 out of range [0, 10]
}

func ExampleValidate_distribution() {
	doc, _ := document.DecodeYAML([]byte(
		"hydraulic_conductivity:\n  distribution:\n    min: 2\n    max: 8\n    type: lognormal\n",
	))

	set, _ := Validate(doc)

	def, _ := set.Get(params.HydraulicConductivity)
	fmt.Println(def)
	// Output: hydraulic_conductivity: distribution(min=2, max=8, type=lognormal)
}

func BenchmarkValidate(b *testing.B) {
	doc := document.Map{
		"hydraulic_conductivity": map[string]any{
			"distribution": map[string]any{"min": 0, "max": 10, "type": "normal"},
		},
	}

	for b.Loop() {
		if _, err := Validate(doc); err != nil {
			b.Fatal(err)
		}
	}
}

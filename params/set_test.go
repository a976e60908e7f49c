package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scalarDef builds a definition directly, bypassing the name contract, so
// set mechanics can be exercised with more names than the contract currently
// admits.
func scalarDef(name Name, value float64) Definition {
	return Definition{
		name:   name,
		form:   ScalarForm,
		scalar: Scalar{Value: value},
	}
}

func TestNewSet(t *testing.T) {
	t.Parallel()

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		s := NewSet()
		assert.Equal(t, 0, s.Len())
		assert.Empty(t, s.Names())
	})

	t.Run("zero value set is usable", func(t *testing.T) {
		t.Parallel()

		var s Set

		assert.Equal(t, 0, s.Len())
		assert.Empty(t, s.Names())
		assert.False(t, s.Contains(HydraulicConductivity))

		_, ok := s.Get(HydraulicConductivity)
		assert.False(t, ok)
	})

	t.Run("skips zero definitions", func(t *testing.T) {
		t.Parallel()

		s := NewSet(Definition{}, scalarDef(HydraulicConductivity, 5))
		assert.Equal(t, 1, s.Len())
	})

	t.Run("last definition wins per name", func(t *testing.T) {
		t.Parallel()

		s := NewSet(
			scalarDef(HydraulicConductivity, 1),
			scalarDef(HydraulicConductivity, 9),
		)
		require.Equal(t, 1, s.Len())

		def, ok := s.Get(HydraulicConductivity)
		require.True(t, ok)

		scalar, ok := def.Scalar()
		require.True(t, ok)
		assert.InDelta(t, 9.0, scalar.Value, 0)
	})
}

func TestSetLookups(t *testing.T) {
	t.Parallel()

	def, err := NewScalar(HydraulicConductivity, 5)
	require.NoError(t, err)

	s := NewSet(def)

	assert.True(t, s.Contains(HydraulicConductivity))
	assert.False(t, s.Contains(LandCover))

	got, ok := s.Get(HydraulicConductivity)
	require.True(t, ok)
	assert.Equal(t, def, got)

	_, ok = s.Get(LandCover)
	assert.False(t, ok)
}

func TestSetNamesNaturalOrder(t *testing.T) {
	t.Parallel()

	s := NewSet(
		scalarDef(Name("layer_10_conductivity"), 1),
		scalarDef(Name("layer_2_conductivity"), 2),
		scalarDef(Name("layer_1_conductivity"), 3),
	)

	assert.Equal(t, []Name{
		Name("layer_1_conductivity"),
		Name("layer_2_conductivity"),
		Name("layer_10_conductivity"),
	}, s.Names())
}

func TestSetDefinitionsFollowNameOrder(t *testing.T) {
	t.Parallel()

	s := NewSet(
		scalarDef(Name("b"), 2),
		scalarDef(Name("a"), 1),
	)

	defs := s.Definitions()
	require.Len(t, defs, 2)
	assert.Equal(t, Name("a"), defs[0].Name())
	assert.Equal(t, Name("b"), defs[1].Name())
}

func TestSetMarshalJSON(t *testing.T) {
	t.Parallel()

	scalar, err := NewScalar(HydraulicConductivity, 5)
	require.NoError(t, err)

	data, err := NewSet(scalar).MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"hydraulic_conductivity": {"scalar": 5}}`, string(data))

	dist, err := NewDistribution(HydraulicConductivity, 0, 10, Normal)
	require.NoError(t, err)

	data, err = NewSet(dist).MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"hydraulic_conductivity": {"distribution": {"min": 0, "max": 10, "type": "normal"}}}`,
		string(data))
}

package params

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScalar(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		def, err := NewScalar(HydraulicConductivity, 5)
		require.NoError(t, err)

		assert.Equal(t, HydraulicConductivity, def.Name())
		assert.Equal(t, ScalarForm, def.Form())
		assert.False(t, def.IsZero())

		scalar, ok := def.Scalar()
		require.True(t, ok)
		assert.InDelta(t, 5.0, scalar.Value, 0)

		_, ok = def.Distribution()
		assert.False(t, ok)
	})

	t.Run("inclusive bounds", func(t *testing.T) {
		t.Parallel()

		_, err := NewScalar(HydraulicConductivity, 0)
		require.NoError(t, err)

		_, err = NewScalar(HydraulicConductivity, 10)
		require.NoError(t, err)
	})

	t.Run("fractional value", func(t *testing.T) {
		t.Parallel()

		def, err := NewScalar(HydraulicConductivity, 9.75)
		require.NoError(t, err)

		scalar, ok := def.Scalar()
		require.True(t, ok)
		assert.InDelta(t, 9.75, scalar.Value, 0)
	})

	tests := []struct {
		name  string
		param Name
		value float64
		want  error
	}{
		{name: "below range", param: HydraulicConductivity, value: -0.5, want: ErrValueOutOfRange},
		{name: "above range", param: HydraulicConductivity, value: 10.5, want: ErrValueOutOfRange},
		{name: "nan", param: HydraulicConductivity, value: math.NaN(), want: ErrValueOutOfRange},
		{name: "positive infinity", param: HydraulicConductivity, value: math.Inf(1), want: ErrValueOutOfRange},
		{name: "uncontracted name", param: LandCover, value: 5, want: ErrUncontractedName},
		{name: "unknown name", param: Name("porosity"), value: 5, want: ErrUnknownName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			def, err := NewScalar(tt.param, tt.value)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, def.IsZero())
		})
	}
}

func TestNewDistribution(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		def, err := NewDistribution(HydraulicConductivity, 0, 10, Normal)
		require.NoError(t, err)

		assert.Equal(t, HydraulicConductivity, def.Name())
		assert.Equal(t, DistributionForm, def.Form())

		dist, ok := def.Distribution()
		require.True(t, ok)
		assert.Equal(t, Distribution{Min: 0, Max: 10, Family: Normal}, dist)

		_, ok = def.Scalar()
		assert.False(t, ok)
	})

	t.Run("degenerate range", func(t *testing.T) {
		t.Parallel()

		_, err := NewDistribution(HydraulicConductivity, 4, 4, Lognormal)
		require.NoError(t, err)
	})

	tests := []struct {
		name     string
		min, max int64
		family   Family
		want     []error
	}{
		{
			name: "min below range", min: -1, max: 5, family: Normal,
			want: []error{ErrMinOutOfRange},
		},
		{
			name: "max above range", min: 5, max: 11, family: Normal,
			want: []error{ErrMaxOutOfRange},
		},
		{
			name: "inverted bounds", min: 7, max: 2, family: Normal,
			want: []error{ErrBoundsInverted},
		},
		{
			name: "unknown family", min: 0, max: 10, family: Family("gamma"),
			want: []error{ErrUnknownFamily},
		},
		{
			name: "multiple violations reported together", min: -1, max: 11, family: Family("gamma"),
			want: []error{ErrMinOutOfRange, ErrMaxOutOfRange, ErrUnknownFamily},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			def, err := NewDistribution(HydraulicConductivity, tt.min, tt.max, tt.family)
			require.Error(t, err)
			assert.True(t, def.IsZero())

			for _, want := range tt.want {
				assert.ErrorIs(t, err, want)
			}
		})
	}

	t.Run("ordering not reported for out-of-range bounds", func(t *testing.T) {
		t.Parallel()

		_, err := NewDistribution(HydraulicConductivity, 11, 2, Normal)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMinOutOfRange)
		assert.NotErrorIs(t, err, ErrBoundsInverted)
	})

	t.Run("uncontracted name", func(t *testing.T) {
		t.Parallel()

		_, err := NewDistribution(LandCover, 0, 10, Normal)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUncontractedName)
	})
}

func TestDefinitionMarshalJSON(t *testing.T) {
	t.Parallel()

	t.Run("scalar", func(t *testing.T) {
		t.Parallel()

		def, err := NewScalar(HydraulicConductivity, 5)
		require.NoError(t, err)

		data, err := def.MarshalJSON()
		require.NoError(t, err)
		assert.JSONEq(t, `{"scalar": 5}`, string(data))
	})

	t.Run("distribution", func(t *testing.T) {
		t.Parallel()

		def, err := NewDistribution(HydraulicConductivity, 0, 10, Lognormal)
		require.NoError(t, err)

		data, err := def.MarshalJSON()
		require.NoError(t, err)
		assert.JSONEq(t, `{"distribution": {"min": 0, "max": 10, "type": "lognormal"}}`, string(data))
	})

	t.Run("zero definition", func(t *testing.T) {
		t.Parallel()

		_, err := Definition{}.MarshalJSON()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrZeroDefinition)
	})
}

func TestDefinitionString(t *testing.T) {
	t.Parallel()

	scalar, err := NewScalar(HydraulicConductivity, 2.5)
	require.NoError(t, err)
	assert.Equal(t, "hydraulic_conductivity: scalar(2.5)", scalar.String())

	dist, err := NewDistribution(HydraulicConductivity, 1, 9, Normal)
	require.NoError(t, err)
	assert.Equal(t,
		"hydraulic_conductivity: distribution(min=1, max=9, type=normal)",
		dist.String())
}

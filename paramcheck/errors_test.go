package paramcheck

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorRendering(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "unknown parameter",
			err:  errUnknownParameter("soil_depth"),
			want: `parameter "soil_depth": unknown parameter (known: hydraulic_conductivity, land_cover)`,
		},
		{
			name: "unsupported parameter",
			err:  errUnsupportedParameter("land_cover"),
			want: `parameter "land_cover": recognized but not yet supported`,
		},
		{
			name: "unknown field",
			err:  errUnknownField("hydraulic_conductivity", "units", representationKeys()),
			want: `parameter "hydraulic_conductivity", field "units": unknown field (allowed: distribution, scalar)`,
		},
		{
			name: "missing representation",
			err:  errMissingRepresentation("hydraulic_conductivity"),
			want: `parameter "hydraulic_conductivity": missing representation (exactly one of distribution, scalar required)`,
		},
		{
			name: "ambiguous representation",
			err:  errAmbiguousRepresentation("hydraulic_conductivity"),
			want: `parameter "hydraulic_conductivity": ambiguous representation (distribution and scalar are mutually exclusive)`,
		},
		{
			name: "invalid type",
			err:  errInvalidType("hydraulic_conductivity", "scalar", "number", "five"),
			want: `parameter "hydraulic_conductivity", field "scalar": expected number, got string`,
		},
		{
			name: "invalid type with json number",
			err:  errInvalidType("hydraulic_conductivity", "type", "string", json.Number("3")),
			want: `parameter "hydraulic_conductivity", field "type": expected string, got number`,
		},
		{
			name: "out of range",
			err:  errOutOfRange("hydraulic_conductivity", "scalar", 12.5, contractBounds()),
			want: `parameter "hydraulic_conductivity", field "scalar": value 12.5 out of range [0, 10]`,
		},
		{
			name: "invalid enum",
			err:  errInvalidEnum("hydraulic_conductivity", "type", "gamma", familyStrings()),
			want: `parameter "hydraulic_conductivity", field "type": value gamma not one of {normal, lognormal}`,
		},
		{
			name: "invalid range",
			err:  errInvalidRange("hydraulic_conductivity", 7, 3),
			want: `parameter "hydraulic_conductivity": min 7 exceeds max 3`,
		},
		{
			name: "missing required field",
			err:  errMissingField("hydraulic_conductivity", "type"),
			want: `parameter "hydraulic_conductivity", field "type": required field missing`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestKindSentinels(t *testing.T) {
	t.Parallel()

	t.Run("every kind maps to a distinct sentinel", func(t *testing.T) {
		t.Parallel()

		seen := make(map[error]Kind, len(Kinds()))

		for _, kind := range Kinds() {
			sentinel := kind.Sentinel()
			require.NotNil(t, sentinel)
			assert.NotErrorIs(t, sentinel, ErrValidation)

			prev, dup := seen[sentinel]
			require.Falsef(t, dup, "kinds %s and %s share a sentinel", prev, kind)

			seen[sentinel] = kind
		}
	})

	t.Run("failures unwrap to their sentinel", func(t *testing.T) {
		t.Parallel()

		assert.ErrorIs(t, errUnknownParameter("x"), ErrUnknownParameter)
		assert.ErrorIs(t, errMissingField("x", "min"), ErrMissingRequiredField)
		assert.NotErrorIs(t, errMissingField("x", "min"), ErrUnknownParameter)
	})
}

func TestErrorsAggregate(t *testing.T) {
	t.Parallel()

	t.Run("empty aggregate is not an error", func(t *testing.T) {
		t.Parallel()

		aggregate := &Errors{}
		assert.NoError(t, aggregate.asError())

		var nilAggregate *Errors

		assert.NoError(t, nilAggregate.asError())
	})

	t.Run("single failure renders plainly", func(t *testing.T) {
		t.Parallel()

		aggregate := &Errors{}
		aggregate.add(errUnsupportedParameter("land_cover"))

		err := aggregate.asError()
		require.Error(t, err)
		assert.Equal(t, `parameter "land_cover": recognized but not yet supported`, err.Error())
	})

	t.Run("multiple failures render as a counted list", func(t *testing.T) {
		t.Parallel()

		aggregate := &Errors{}
		aggregate.add(
			errUnknownParameter("soil_depth"),
			errUnsupportedParameter("land_cover"),
		)

		err := aggregate.asError()
		require.Error(t, err)

		want := "2 validation errors:\n" +
			`parameter "land_cover": recognized but not yet supported` + "\n" +
			`parameter "soil_depth": unknown parameter (known: hydraulic_conductivity, land_cover)`
		assert.Equal(t, want, err.Error())
	})

	t.Run("sorted by parameter then field then kind", func(t *testing.T) {
		t.Parallel()

		aggregate := &Errors{}
		aggregate.add(
			errMissingField("land_cover", "x"),
			errOutOfRange("hydraulic_conductivity", "min", 11, contractBounds()),
			errInvalidRange("hydraulic_conductivity", 7, 3),
			errMissingField("hydraulic_conductivity", "max"),
		)
		aggregate.sortErrors()

		got := make([]string, 0, aggregate.Len())
		for _, failure := range aggregate.All() {
			got = append(got, failure.Parameter+"/"+failure.Field+"/"+string(failure.Kind))
		}

		assert.Equal(t, []string{
			"hydraulic_conductivity//invalid_range",
			"hydraulic_conductivity/max/missing_required_field",
			"hydraulic_conductivity/min/out_of_range",
			"land_cover/x/missing_required_field",
		}, got)
	})

	t.Run("nil failures are ignored", func(t *testing.T) {
		t.Parallel()

		aggregate := &Errors{}
		aggregate.add(nil, errUnsupportedParameter("land_cover"), nil)
		assert.Equal(t, 1, aggregate.Len())
	})

	t.Run("all returns a copy", func(t *testing.T) {
		t.Parallel()

		aggregate := &Errors{}
		aggregate.add(errUnsupportedParameter("land_cover"))

		all := aggregate.All()
		all[0] = errUnknownParameter("soil_depth")

		assert.Equal(t, KindUnsupportedParameter, aggregate.All()[0].Kind)
	})

	t.Run("matches marker and sentinels", func(t *testing.T) {
		t.Parallel()

		aggregate := &Errors{}
		aggregate.add(errInvalidRange("hydraulic_conductivity", 9, 1))

		err := aggregate.asError()
		assert.ErrorIs(t, err, ErrValidation)
		assert.ErrorIs(t, err, ErrInvalidRange)
		assert.NotErrorIs(t, err, ErrOutOfRange)

		unwrapped := errors.Unwrap(aggregate.All()[0])
		assert.Equal(t, ErrInvalidRange, unwrapped)
	})
}

package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	t.Run("object root", func(t *testing.T) {
		t.Parallel()

		doc, err := DecodeJSON([]byte(`{"hydraulic_conductivity": {"value": 5}}`))
		require.NoError(t, err)
		require.Contains(t, doc, "hydraulic_conductivity")

		body, ok := doc["hydraulic_conductivity"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, json.Number("5"), body["value"])
	})

	t.Run("empty object", func(t *testing.T) {
		t.Parallel()

		doc, err := DecodeJSON([]byte(`{}`))
		require.NoError(t, err)
		assert.Empty(t, doc)
	})

	t.Run("numbers stay json.Number", func(t *testing.T) {
		t.Parallel()

		doc, err := DecodeJSON([]byte(`{"a": 1.5, "b": 12}`))
		require.NoError(t, err)
		assert.Equal(t, json.Number("1.5"), doc["a"])
		assert.Equal(t, json.Number("12"), doc["b"])
	})

	tests := []struct {
		name string
		data string
		want error
	}{
		{
			name: "array root",
			data: `[1, 2, 3]`,
			want: ErrNotObject,
		},
		{
			name: "string root",
			data: `"hydraulic_conductivity"`,
			want: ErrNotObject,
		},
		{
			name: "number root",
			data: `42`,
			want: ErrNotObject,
		},
		{
			name: "null root",
			data: `null`,
			want: ErrNotObject,
		},
		{
			name: "trailing content",
			data: `{} {}`,
			want: ErrTrailingContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := DecodeJSON([]byte(tt.data))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("malformed input", func(t *testing.T) {
		t.Parallel()

		_, err := DecodeJSON([]byte(`{"value": `))
		require.Error(t, err)
	})
}

func TestDecodeYAML(t *testing.T) {
	t.Parallel()

	t.Run("mapping root", func(t *testing.T) {
		t.Parallel()

		doc, err := DecodeYAML([]byte("hydraulic_conductivity:\n  value: 5\n"))
		require.NoError(t, err)

		body, ok := doc["hydraulic_conductivity"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, 5, body["value"])
	})

	t.Run("nested mappings normalized", func(t *testing.T) {
		t.Parallel()

		doc, err := DecodeYAML([]byte("a:\n  b:\n    c: [1, two, 3.5]\n"))
		require.NoError(t, err)

		inner, ok := doc["a"].(map[string]any)
		require.True(t, ok)

		innermost, ok := inner["b"].(map[string]any)
		require.True(t, ok)

		assert.Equal(t, []any{1, "two", 3.5}, innermost["c"])
	})

	t.Run("scalar root rejected", func(t *testing.T) {
		t.Parallel()

		_, err := DecodeYAML([]byte("just a string"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotObject)
	})

	t.Run("sequence root rejected", func(t *testing.T) {
		t.Parallel()

		_, err := DecodeYAML([]byte("- 1\n- 2\n"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNotObject)
	})

	t.Run("non-string key rejected", func(t *testing.T) {
		t.Parallel()

		_, err := DecodeYAML([]byte("a:\n  1: one\n"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNonStringKey)
	})

	t.Run("malformed input", func(t *testing.T) {
		t.Parallel()

		_, err := DecodeYAML([]byte("a: [unclosed"))
		require.Error(t, err)
	})
}

func TestTypeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "null", value: nil, want: "null"},
		{name: "object", value: map[string]any{}, want: "object"},
		{name: "array", value: []any{}, want: "array"},
		{name: "string", value: "hi", want: "string"},
		{name: "boolean", value: true, want: "boolean"},
		{name: "int", value: 7, want: "number"},
		{name: "float", value: 7.5, want: "number"},
		{name: "json number", value: json.Number("7"), want: "number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, TypeName(tt.value))
		})
	}
}

// Package document provides the generic structured-data trees consumed by the
// parameter validator. A document is a mapping from string keys to arbitrary
// structured values, as produced by a JSON or YAML reader. The validator never
// parses raw bytes itself; this package is the reader collaborator that turns
// bytes into trees.
package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Sentinel errors for document decoding.
var (
	ErrNotObject       = errors.New("document root must be an object")
	ErrTrailingContent = errors.New("document has trailing content after the root object")
	ErrNonStringKey    = errors.New("document contains a non-string mapping key")
)

// Map is a parameter document: a generic tree of maps, arrays, and scalars
// keyed by string at every mapping level. A nil Map is a valid, empty
// document.
type Map map[string]any

// DecodeJSON parses a JSON document into a Map. Numbers are preserved as
// json.Number so that the distinction between integral and fractional values
// survives decoding. The root of the document must be a JSON object; anything
// else (including null) is rejected with ErrNotObject.
func DecodeJSON(data []byte) (Map, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("decoding JSON document: %w", err)
	}

	if dec.More() {
		return nil, ErrTrailingContent
	}

	obj, ok := root.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w, got %s", ErrNotObject, TypeName(root))
	}

	return Map(obj), nil
}

// DecodeYAML parses a YAML document into a Map. The root must be a mapping
// with string keys; nested mappings are normalized to map[string]any so a
// YAML-decoded document is interchangeable with a JSON-decoded one.
func DecodeYAML(data []byte) (Map, error) {
	var root any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decoding YAML document: %w", err)
	}

	normalized, err := normalize(root)
	if err != nil {
		return nil, err
	}

	obj, ok := normalized.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w, got %s", ErrNotObject, TypeName(root))
	}

	return Map(obj), nil
}

// normalize rewrites yaml.v3 output so that every mapping in the tree is a
// map[string]any. yaml.v3 already produces string-keyed maps for string keys;
// mappings with non-string keys have no JSON equivalent and are rejected.
func normalize(v any) (any, error) {
	switch tv := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(tv))

		for key, val := range tv {
			normVal, err := normalize(val)
			if err != nil {
				return nil, err
			}

			out[key] = normVal
		}

		return out, nil
	case map[any]any:
		out := make(map[string]any, len(tv))

		for key, val := range tv {
			strKey, ok := key.(string)
			if !ok {
				return nil, fmt.Errorf("%w: %v", ErrNonStringKey, key)
			}

			normVal, err := normalize(val)
			if err != nil {
				return nil, err
			}

			out[strKey] = normVal
		}

		return out, nil
	case []any:
		out := make([]any, len(tv))

		for idx, val := range tv {
			normVal, err := normalize(val)
			if err != nil {
				return nil, err
			}

			out[idx] = normVal
		}

		return out, nil
	default:
		return v, nil
	}
}

// TypeName describes a decoded value's type in the vocabulary of the JSON
// data model, for use in error messages.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any, map[any]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	default:
		if _, ok := Number(v); ok {
			return "number"
		}

		return fmt.Sprintf("%T", v)
	}
}

package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"hash"
	"sort"
	"strconv"

	"github.com/OneOfOne/xxhash"
	"github.com/zeebo/xxh3"
)

// ErrUnhashableValue is returned when a document contains a value outside the
// JSON data model (maps, arrays, strings, numbers, booleans, null), so no
// canonical encoding exists for it.
var ErrUnhashableValue = errors.New("document contains an unhashable value")

// Fingerprint identifies a document by content. Two documents that decode to
// the same logical tree share a fingerprint regardless of whether they came
// from JSON or YAML: the canonical encoding sorts mapping keys and normalizes
// numeric spellings (5, 5.0 and json.Number("5") all encode as "5").
type Fingerprint struct {
	Hi uint64
	Lo uint64
}

// String renders the fingerprint as 32 hex characters.
func (fp Fingerprint) String() string {
	return fmt.Sprintf("%016x%016x", fp.Hi, fp.Lo)
}

// IsZero reports whether the fingerprint is the zero value. The zero
// fingerprint never results from hashing a document.
func (fp Fingerprint) IsZero() bool {
	return fp.Hi == 0 && fp.Lo == 0
}

// Fingerprint computes the 128-bit xxh3 fingerprint of the document's
// canonical encoding. Validation results may safely be memoized under this
// key: validation is deterministic, so equal fingerprints imply equal
// outcomes.
func (m Map) Fingerprint() (Fingerprint, error) {
	h := xxh3.New()

	if err := m.UpdateHash(h); err != nil {
		return Fingerprint{}, err
	}

	sum := h.Sum128()

	return Fingerprint{Hi: sum.Hi, Lo: sum.Lo}, nil
}

// ShortID computes a compact 64-bit content id for the document, rendered as
// 16 hex characters. It is meant for log correlation, where the full
// fingerprint is noise; use Fingerprint for cache keys.
func (m Map) ShortID() (string, error) {
	h := xxhash.New64()

	if err := m.UpdateHash(h); err != nil {
		return "", err
	}

	return fmt.Sprintf("%016x", h.Sum64()), nil
}

// UpdateHash writes the document's canonical encoding into h. The encoding is
// type-tagged and length-prefixed, with mapping keys visited in sorted order,
// so it is injective over the JSON data model up to numeric normalization.
func (m Map) UpdateHash(h hash.Hash) error {
	return updateHash(h, map[string]any(m))
}

func updateHash(h hash.Hash, v any) error {
	switch tv := v.(type) {
	case nil:
		return writeString(h, "z")
	case bool:
		if tv {
			return writeString(h, "t")
		}

		return writeString(h, "f")
	case string:
		return writeTagged(h, 's', tv)
	case Map:
		return updateHash(h, map[string]any(tv))
	case map[string]any:
		keys := make([]string, 0, len(tv))
		for key := range tv {
			keys = append(keys, key)
		}

		sort.Strings(keys)

		if err := writeString(h, "m"+strconv.Itoa(len(keys))+":"); err != nil {
			return err
		}

		for _, key := range keys {
			if err := writeTagged(h, 'k', key); err != nil {
				return err
			}

			if err := updateHash(h, tv[key]); err != nil {
				return err
			}
		}

		return nil
	case []any:
		if err := writeString(h, "a"+strconv.Itoa(len(tv))+":"); err != nil {
			return err
		}

		for _, elem := range tv {
			if err := updateHash(h, elem); err != nil {
				return err
			}
		}

		return nil
	default:
		num, ok := canonicalNumber(v)
		if !ok {
			return fmt.Errorf("%w: %T", ErrUnhashableValue, v)
		}

		return writeTagged(h, 'n', num)
	}
}

// canonicalNumber renders any supported numeric value as its shortest decimal
// spelling, collapsing representation differences between readers.
func canonicalNumber(v any) (string, bool) {
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return strconv.FormatInt(i, 10), true
		}

		f, err := n.Float64()
		if err != nil {
			return "", false
		}

		return strconv.FormatFloat(f, 'g', -1, 64), true
	}

	if i, ok := Integer(v); ok {
		return strconv.FormatInt(i, 10), true
	}

	f, ok := Number(v)
	if !ok {
		return "", false
	}

	return strconv.FormatFloat(f, 'g', -1, 64), true
}

func writeTagged(h hash.Hash, tag byte, s string) error {
	return writeString(h, string(tag)+strconv.Itoa(len(s))+":"+s)
}

func writeString(h hash.Hash, s string) error {
	_, err := h.Write([]byte(s))

	return err
}

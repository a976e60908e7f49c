package document

import (
	"encoding/json"
	"math"
)

// Number reports v as a float64 if it is any numeric value a JSON or YAML
// reader can produce: Go integer and float types, or a json.Number.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}

		return f, true
	default:
		return 0, false
	}
}

// Integer reports v as an int64 if it is an integral numeric value. Floats
// qualify when they carry no fractional part (3.0 is the integer 3), matching
// how JSON Schema treats the integer type; 3.5 and non-finite values do not.
func Integer(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}

		return int64(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}

		f, err := n.Float64()
		if err != nil {
			return 0, false
		}

		return integralFloat(f)
	case float32:
		return integralFloat(float64(n))
	case float64:
		return integralFloat(n)
	default:
		return 0, false
	}
}

// integralFloat converts a float carrying no fractional part to an int64.
func integralFloat(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Trunc(f) != f {
		return 0, false
	}

	if f < math.MinInt64 || f > math.MaxInt64 {
		return 0, false
	}

	return int64(f), true
}

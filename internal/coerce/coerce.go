// Package coerce holds the scalar conversions shared by the widget handlers
// and the engine. Every helper is total: unexpected input degrades to the zero
// value of the target type instead of failing.
package coerce

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Bool reduces any value to a strict boolean. Strings recognise the usual
// spellings of false ("", "0", "false", "no", "off"); any other non-empty
// string is true.
func Bool(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "", "0", "false", "no", "off":
			return false
		default:
			return true
		}
	case json.Number:
		f, err := v.Float64()
		return err == nil && f != 0 && !math.IsNaN(f)
	case []any:
		return true
	case map[string]any:
		return true
	}
	if f, ok := Number(value); ok {
		return f != 0 && !math.IsNaN(f)
	}
	return true
}

// Number converts numeric values (and numeric strings) to float64. The second
// result is false when no number could be derived.
func Number(value any) (float64, bool) {
	switch v := value.(type) {
	case nil:
		return 0, false
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return finite(f)
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, false
		}
		return finite(f)
	default:
		return 0, false
	}
}

// finite rejects NaN and the infinities, which have no JSON encoding.
func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// NumberOrZero returns Number(value) or zero when the value is not numeric.
func NumberOrZero(value any) float64 {
	f, _ := Number(value)
	return f
}

// String renders scalars as strings. Nil becomes the empty string; maps and
// slices are JSON encoded so structured defaults survive as text.
func String(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case map[string]any, []any:
		payload, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(payload)
	default:
		return fmt.Sprint(v)
	}
}

// StringSlice normalises list-like values into a slice of strings. A single
// non-empty scalar becomes a one element slice.
func StringSlice(value any) []string {
	switch v := value.(type) {
	case nil:
		return []string{}
	case []string:
		return append([]string{}, v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			out = append(out, String(item))
		}
		return out
	case string:
		if strings.TrimSpace(v) == "" {
			return []string{}
		}
		return []string{v}
	default:
		return []string{String(v)}
	}
}

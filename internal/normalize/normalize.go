// Package normalize converts raw, possibly malformed upstream records into
// safe fully-typed values. Every helper is total: any input shape yields a
// usable value, never a panic.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateSentinel is returned when a date field cannot be parsed.
const DateSentinel = "N/A"

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-01-2006",
}

// AsMap returns v as a map, or an empty map for nil / non-object values.
func AsMap(v interface{}) map[string]interface{} {
	if m, ok := v.(map[string]interface{}); ok && m != nil {
		return m
	}
	return map[string]interface{}{}
}

// AsSlice returns v as a slice, or nil for anything else.
func AsSlice(v interface{}) []interface{} {
	if s, ok := v.([]interface{}); ok {
		return s
	}
	return nil
}

// String coerces m[key] to a trimmed string. Numbers are rendered in their
// shortest form, nil and missing keys become "".
func String(m map[string]interface{}, key string) string {
	return strings.TrimSpace(asString(m[key]))
}

// ScalarString coerces a bare value (not a map field) to a trimmed string.
func ScalarString(v interface{}) string {
	return strings.TrimSpace(asString(v))
}

// StringOr is String with a fallback for empty results.
func StringOr(m map[string]interface{}, key, fallback string) string {
	if s := String(m, key); s != "" {
		return s
	}
	return fallback
}

// Bool coerces m[key] to a bool. Accepts real booleans, "true"/"1" strings
// and non-zero numbers.
func Bool(m map[string]interface{}, key string) bool {
	switch v := m[key].(type) {
	case bool:
		return v
	case string:
		s := strings.TrimSpace(strings.ToLower(v))
		return s == "true" || s == "1"
	case float64:
		return v != 0
	case json.Number:
		f, _ := v.Float64()
		return f != 0
	default:
		return false
	}
}

// Int coerces m[key] to a non-negative int. NaN, negatives and garbage
// normalize to 0.
func Int(m map[string]interface{}, key string) int {
	f := asFloat(m[key])
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return int(f)
}

// ID coerces m[key] to a record identifier. Zero marks a missing or
// malformed ID; collections drop zero-ID records before serving.
func ID(m map[string]interface{}, key string) uint {
	f := asFloat(m[key])
	if math.IsNaN(f) || f < 1 {
		return 0
	}
	return uint(f)
}

// Price coerces m[key] to a non-negative decimal. The upstream API sends
// prices as decimal strings but older records carry floats; both are
// accepted. Invalid or negative input normalizes to zero.
func Price(m map[string]interface{}, key string) decimal.Decimal {
	d := asDecimal(m[key])
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Date parses m[key] with the layouts the platform is known to emit and
// re-renders it as RFC 3339. Unparseable input yields DateSentinel.
func Date(m map[string]interface{}, key string) string {
	s := String(m, key)
	if s == "" {
		return DateSentinel
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(time.RFC3339)
		}
	}
	return DateSentinel
}

// Slug derives a URL slug from a display name: lowercase, runs of
// non-alphanumerics collapsed to single dashes.
func Slug(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// Collection applies fn to each raw record, recovering per record so one
// malformed row never fails the whole list. A record whose normalization
// panics is replaced with placeholder; callers filter sentinel IDs with Keep.
func Collection[T any](raws []interface{}, fn func(map[string]interface{}) T, placeholder T) []T {
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		out = append(out, safeNormalize(AsMap(raw), fn, placeholder))
	}
	return out
}

// Keep filters items in place order, retaining those for which keep is true.
func Keep[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

func safeNormalize[T any](raw map[string]interface{}, fn func(map[string]interface{}) T, placeholder T) (result T) {
	defer func() {
		if r := recover(); r != nil {
			result = placeholder
		}
	}()
	return fn(raw)
}

func asString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func asFloat(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		return f
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0
		}
		return f
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint:
		return float64(t)
	default:
		return 0
	}
}

func asDecimal(v interface{}) decimal.Decimal {
	switch t := v.(type) {
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(t))
		if err != nil {
			return decimal.Zero
		}
		return d
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(t)
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		if err != nil {
			return decimal.Zero
		}
		return d
	case int:
		return decimal.NewFromInt(int64(t))
	case int64:
		return decimal.NewFromInt(t)
	default:
		return decimal.Zero
	}
}

package normalize

import (
	"sort"
	"strconv"
	"strings"
)

// The platform persists multi-valued fields inconsistently: newer records
// carry real JSON arrays, legacy pujas a brace-delimited string ("{a,b,c}"),
// some rows a plain comma join, and many rows nothing at all. ListShape is
// the explicit sum over those variants; detection happens once, each decode
// lives on the variant, and EncodeStrings is the single canonical encoder.

type ShapeKind int

const (
	ShapeMissing ShapeKind = iota
	ShapeArray
	ShapeBraceString
	ShapeCommaString
)

type ListShape struct {
	Kind ShapeKind
	raw  interface{}
}

// DetectList classifies the raw value of a multi-valued field.
func DetectList(v interface{}) ListShape {
	switch t := v.(type) {
	case nil:
		return ListShape{Kind: ShapeMissing}
	case []interface{}:
		return ListShape{Kind: ShapeArray, raw: t}
	case map[string]interface{}:
		// object-of-objects: legacy serializer keyed entries by index,
		// so key order is significant
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			a, aerr := strconv.Atoi(keys[i])
			b, berr := strconv.Atoi(keys[j])
			if aerr == nil && berr == nil {
				return a < b
			}
			return keys[i] < keys[j]
		})
		arr := make([]interface{}, 0, len(keys))
		for _, k := range keys {
			arr = append(arr, t[k])
		}
		return ListShape{Kind: ShapeArray, raw: arr}
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return ListShape{Kind: ShapeMissing}
		}
		if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
			return ListShape{Kind: ShapeBraceString, raw: s}
		}
		return ListShape{Kind: ShapeCommaString, raw: s}
	default:
		return ListShape{Kind: ShapeMissing}
	}
}

// Items returns the underlying array for ShapeArray, nil for the string
// and missing variants.
func (s ListShape) Items() []interface{} {
	if s.Kind == ShapeArray {
		return s.raw.([]interface{})
	}
	return nil
}

// Strings decodes the shape into a trimmed, de-duplicated string slice.
// Missing decodes to an empty slice, never nil-panics downstream.
func (s ListShape) Strings() []string {
	switch s.Kind {
	case ShapeArray:
		items := s.raw.([]interface{})
		out := make([]string, 0, len(items))
		for _, item := range items {
			out = append(out, strings.TrimSpace(asString(item)))
		}
		return dedupe(out)
	case ShapeBraceString:
		inner := strings.TrimSuffix(strings.TrimPrefix(s.raw.(string), "{"), "}")
		return dedupe(splitTrim(inner))
	case ShapeCommaString:
		return dedupe(splitTrim(s.raw.(string)))
	default:
		return []string{}
	}
}

// IDs decodes the shape into identifiers. Array entries may be numbers,
// numeric strings, or embedded objects carrying an "id" field; anything
// unresolvable is dropped.
func (s ListShape) IDs() []uint {
	var candidates []string
	switch s.Kind {
	case ShapeArray:
		items := s.raw.([]interface{})
		out := make([]uint, 0, len(items))
		seen := map[uint]bool{}
		for _, item := range items {
			var id uint
			if obj, ok := item.(map[string]interface{}); ok {
				id = ID(obj, "id")
			} else {
				id = scalarID(item)
			}
			if id > 0 && !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
		return out
	case ShapeBraceString, ShapeCommaString:
		candidates = s.Strings()
	default:
		return []uint{}
	}

	out := make([]uint, 0, len(candidates))
	seen := map[uint]bool{}
	for _, c := range candidates {
		if id := scalarID(c); id > 0 && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// EncodeStrings is the canonical wire encoding for multi-valued string
// fields: a plain comma join. Braces are never reintroduced.
func EncodeStrings(items []string) string {
	clean := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it != "" {
			clean = append(clean, it)
		}
	}
	return strings.Join(clean, ",")
}

func scalarID(v interface{}) uint {
	return ID(map[string]interface{}{"v": v}, "v")
}

func splitTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(strings.Trim(strings.TrimSpace(p), `"`))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it == "" || seen[it] {
			continue
		}
		seen[it] = true
		out = append(out, it)
	}
	return out
}

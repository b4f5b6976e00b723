package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectListVariants(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		kind ShapeKind
	}{
		{"nil", nil, ShapeMissing},
		{"empty string", "   ", ShapeMissing},
		{"array", []interface{}{"a"}, ShapeArray},
		{"brace string", "{a,b}", ShapeBraceString},
		{"comma string", "a,b", ShapeCommaString},
		{"single value", "general", ShapeCommaString},
		{"index-keyed object", map[string]interface{}{"0": "a", "1": "b"}, ShapeArray},
		{"number", float64(3), ShapeMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, DetectList(tt.in).Kind)
		})
	}
}

func TestCategoryRoundTrip(t *testing.T) {
	// legacy server shape -> string slice -> canonical wire form
	decoded := DetectList("{general,health}").Strings()
	assert.Equal(t, []string{"general", "health"}, decoded)

	encoded := EncodeStrings(decoded)
	assert.Equal(t, "general,health", encoded)
	assert.NotContains(t, encoded, "{")
	assert.NotContains(t, encoded, "}")

	// a second pass decodes to the same slice
	assert.Equal(t, decoded, DetectList(encoded).Strings())
}

func TestStringsDeduplicatesAndTrims(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, DetectList(" a , b , a ").Strings())
	assert.Equal(t, []string{"a", "b"}, DetectList([]interface{}{"a", " b", "a", ""}).Strings())
	assert.Equal(t, []string{}, DetectList(nil).Strings())
}

func TestIndexKeyedObjectPreservesOrder(t *testing.T) {
	// the legacy serializer keys entries by index; "10" must sort after "2"
	in := map[string]interface{}{
		"10": "last",
		"0":  "first",
		"2":  "middle",
	}
	assert.Equal(t, []string{"first", "middle", "last"}, DetectList(in).Strings())
}

func TestIDsAcceptsAllShapes(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want []uint
	}{
		{"numbers", []interface{}{float64(1), float64(2)}, []uint{1, 2}},
		{"numeric strings", []interface{}{"3", "4"}, []uint{3, 4}},
		{"embedded objects", []interface{}{
			map[string]interface{}{"id": float64(7), "name": "x"},
			map[string]interface{}{"id": float64(8)},
		}, []uint{7, 8}},
		{"comma string", "5,6", []uint{5, 6}},
		{"brace string", "{9,10}", []uint{9, 10}},
		{"duplicates dropped", []interface{}{float64(1), "1", float64(2)}, []uint{1, 2}},
		{"garbage dropped", []interface{}{"x", float64(0), float64(-2), float64(3)}, []uint{3}},
		{"missing", nil, []uint{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectList(tt.in).IDs())
		})
	}
}

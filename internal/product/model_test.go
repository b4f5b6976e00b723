package product

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/33kotidham/admin-gateway/internal/upstream"
)

var testResolver = upstream.NewImageResolver("https://api.33kotidham.in")

func TestDiscountDerivation(t *testing.T) {
	pct, ok := Discount(decimal.NewFromInt(1000), decimal.NewFromInt(750))
	require.True(t, ok)
	assert.Equal(t, "25.00", pct.StringFixed(2))

	// zero mrp guards the division; the raw value is retained by the caller
	_, ok = Discount(decimal.Zero, decimal.NewFromInt(750))
	assert.False(t, ok)

	// selling above mrp clamps to zero rather than going negative
	pct, ok = Discount(decimal.NewFromInt(100), decimal.NewFromInt(150))
	require.True(t, ok)
	assert.True(t, pct.IsZero())
}

func TestNormalizeDerivesDiscountAndSlug(t *testing.T) {
	p := Normalize(map[string]interface{}{
		"id":            float64(1),
		"name":          "Brass Diya Set",
		"mrp":           "1000",
		"selling_price": "750",
		// the stored value is stale on purpose; it must be recomputed
		"discount_percentage": "99",
	}, testResolver)

	assert.Equal(t, "25.00", p.DiscountPercentage.StringFixed(2))
	assert.Equal(t, "brass-diya-set", p.Slug)
}

func TestNormalizeRetainsRawDiscountWhenMRPZero(t *testing.T) {
	p := Normalize(map[string]interface{}{
		"id":                  float64(1),
		"name":                "Free Sample",
		"mrp":                 "0",
		"selling_price":       "0",
		"discount_percentage": "10",
	}, testResolver)

	assert.Equal(t, "10.00", p.DiscountPercentage.StringFixed(2))
}

func TestNormalizeTotality(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]interface{}
	}{
		{"empty record", map[string]interface{}{}},
		{"wrong types everywhere", map[string]interface{}{
			"id": "x", "name": float64(5), "mrp": []interface{}{}, "tags": float64(1),
			"images": "not-a-list", "stock_quantity": "minus", "is_active": "maybe",
		}},
		{"negative numbers", map[string]interface{}{
			"id": float64(3), "mrp": float64(-10), "selling_price": float64(-5), "stock_quantity": float64(-2),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Normalize(tt.raw, testResolver)
			assert.False(t, p.MRP.IsNegative())
			assert.False(t, p.SellingPrice.IsNegative())
			assert.GreaterOrEqual(t, p.StockQuantity, 0)
			assert.NotNil(t, p.Tags)
			assert.NotNil(t, p.Images)
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	raw := map[string]interface{}{
		"id":            float64(4),
		"name":          "Rudraksha Mala",
		"mrp":           "500",
		"selling_price": "400",
		"tags":          "{spiritual,mala}",
		"images":        []interface{}{"uploads/products/mala.jpg"},
		"is_active":     true,
		"created_at":    "2024-05-01",
	}

	once := Normalize(raw, testResolver)

	// feed the normalized record back through its own JSON shape
	blob, err := json.Marshal(once)
	require.NoError(t, err)
	var roundTripped map[string]interface{}
	require.NoError(t, json.Unmarshal(blob, &roundTripped))
	twice := Normalize(roundTripped, testResolver)

	assert.Equal(t, once.ID, twice.ID)
	assert.Equal(t, once.Name, twice.Name)
	assert.Equal(t, once.Slug, twice.Slug)
	assert.True(t, once.MRP.Equal(twice.MRP))
	assert.True(t, once.DiscountPercentage.Equal(twice.DiscountPercentage))
	assert.Equal(t, once.Tags, twice.Tags)
	assert.Equal(t, once.CreatedAt, twice.CreatedAt)
}

func TestNormalizeImagesShapes(t *testing.T) {
	t.Run("object entries with explicit primary", func(t *testing.T) {
		p := Normalize(map[string]interface{}{
			"id":   float64(1),
			"name": "x",
			"images": []interface{}{
				map[string]interface{}{"url": "a.jpg", "is_primary": false},
				map[string]interface{}{"url": "b.jpg", "is_primary": true},
			},
		}, testResolver)

		require.Len(t, p.Images, 2)
		assert.False(t, p.Images[0].IsPrimary)
		assert.True(t, p.Images[1].IsPrimary)
		assert.Equal(t, "https://api.33kotidham.in/a.jpg", p.Images[0].URL)
	})

	t.Run("bare strings default index zero primary", func(t *testing.T) {
		p := Normalize(map[string]interface{}{
			"id":     float64(1),
			"name":   "x",
			"images": []interface{}{"a.jpg", "b.jpg"},
		}, testResolver)

		require.Len(t, p.Images, 2)
		assert.True(t, p.Images[0].IsPrimary)
		assert.Equal(t, 1, p.Images[1].Position)
	})

	t.Run("absolute urls pass through", func(t *testing.T) {
		p := Normalize(map[string]interface{}{
			"id":     float64(1),
			"name":   "x",
			"images": []interface{}{"https://cdn.example.com/a.jpg"},
		}, testResolver)

		require.Len(t, p.Images, 1)
		assert.Equal(t, "https://cdn.example.com/a.jpg", p.Images[0].URL)
	})
}

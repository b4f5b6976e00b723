package temple

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/33kotidham/admin-gateway/internal/upstream"
)

var testResolver = upstream.NewImageResolver("https://api.33kotidham.in")

func TestNormalizeDerivesSlugWhenMissing(t *testing.T) {
	tm := Normalize(map[string]interface{}{
		"id":       float64(1),
		"name":     "Kashi Vishwanath Temple",
		"location": "Varanasi",
	}, testResolver)

	assert.Equal(t, "kashi-vishwanath-temple", tm.Slug)

	tm = Normalize(map[string]interface{}{
		"id":   float64(2),
		"name": "Somnath",
		"slug": "somnath-temple",
	}, testResolver)
	assert.Equal(t, "somnath-temple", tm.Slug)
}

func TestNormalizeLinkedIDShapes(t *testing.T) {
	tm := Normalize(map[string]interface{}{
		"id":                   float64(1),
		"chadawa_ids":          "{1,2}",
		"recommended_puja_ids": []interface{}{float64(3), "4"},
	}, testResolver)

	assert.Equal(t, []uint{1, 2}, tm.ChadawaIDs)
	assert.Equal(t, []uint{3, 4}, tm.RecommendedPujaIDs)
}

func TestNormalizeTotality(t *testing.T) {
	tm := Normalize(map[string]interface{}{}, testResolver)
	assert.Equal(t, uint(0), tm.ID)
	assert.NotNil(t, tm.ChadawaIDs)
	assert.NotNil(t, tm.RecommendedPujaIDs)
}

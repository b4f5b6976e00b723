package chadawa

import (
	"github.com/shopspring/decimal"

	"github.com/33kotidham/admin-gateway/internal/normalize"
	"github.com/33kotidham/admin-gateway/internal/upstream"
	"github.com/33kotidham/admin-gateway/utils"
)

// Chadawa is a purchasable ritual offering attachable to a puja booking.
type Chadawa struct {
	ID             uint            `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	ImageURL       string          `json:"image_url"`
	Price          decimal.Decimal `json:"price"`
	FormattedPrice string          `json:"formatted_price"`
	RequiresNote   bool            `json:"requires_note"`
	CreatedAt      string          `json:"created_at"`
}

// Placeholder substitutes a record whose normalization panicked. The zero
// ID marks it for filtering before the collection is served.
func Placeholder() Chadawa {
	return Chadawa{ID: 0, Name: "Error Loading Chadawa", Price: decimal.Zero, CreatedAt: normalize.DateSentinel}
}

// Normalize converts one raw upstream record into a safe Chadawa. Total:
// any input shape yields a usable record.
func Normalize(raw map[string]interface{}, images *upstream.ImageResolver) Chadawa {
	price := normalize.Price(raw, "price")
	return Chadawa{
		ID:             normalize.ID(raw, "id"),
		Name:           normalize.String(raw, "name"),
		Description:    normalize.String(raw, "description"),
		ImageURL:       images.Resolve(normalize.String(raw, "image_url")),
		Price:          price,
		FormattedPrice: utils.FormatRupee(price),
		RequiresNote:   normalize.Bool(raw, "requires_note"),
		CreatedAt:      normalize.Date(raw, "created_at"),
	}
}

package plan

import (
	"github.com/shopspring/decimal"

	"github.com/33kotidham/admin-gateway/internal/normalize"
	"github.com/33kotidham/admin-gateway/internal/upstream"
	"github.com/33kotidham/admin-gateway/utils"
)

// Plan is a pricing tier selectable when booking a puja. The platform
// exchanges its prices as decimal strings.
type Plan struct {
	ID                       uint            `json:"id"`
	Name                     string          `json:"name"`
	Description              string          `json:"description"`
	ImageURL                 string          `json:"image_url"`
	ActualPrice              decimal.Decimal `json:"actual_price"`
	DiscountedPrice          decimal.Decimal `json:"discounted_price"`
	FormattedActualPrice     string          `json:"formatted_actual_price"`
	FormattedDiscountedPrice string          `json:"formatted_discounted_price"`
	CreatedAt                string          `json:"created_at"`
}

func Placeholder() Plan {
	return Plan{ID: 0, Name: "Error Loading Plan", CreatedAt: normalize.DateSentinel}
}

func Normalize(raw map[string]interface{}, images *upstream.ImageResolver) Plan {
	actual := normalize.Price(raw, "actual_price")
	discounted := normalize.Price(raw, "discounted_price")
	return Plan{
		ID:                       normalize.ID(raw, "id"),
		Name:                     normalize.String(raw, "name"),
		Description:              normalize.String(raw, "description"),
		ImageURL:                 images.Resolve(normalize.String(raw, "image_url")),
		ActualPrice:              actual,
		DiscountedPrice:          discounted,
		FormattedActualPrice:     utils.FormatRupee(actual),
		FormattedDiscountedPrice: utils.FormatRupee(discounted),
		CreatedAt:                normalize.Date(raw, "created_at"),
	}
}

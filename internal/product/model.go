package product

import (
	"github.com/shopspring/decimal"

	"github.com/33kotidham/admin-gateway/internal/normalize"
	"github.com/33kotidham/admin-gateway/internal/upstream"
	"github.com/33kotidham/admin-gateway/utils"
)

type Image struct {
	URL       string `json:"url"`
	IsPrimary bool   `json:"is_primary"`
	Position  int    `json:"position"`
}

type Product struct {
	ID                 uint            `json:"id"`
	Name               string          `json:"name"`
	Slug               string          `json:"slug"`
	ShortDescription   string          `json:"short_description"`
	LongDescription    string          `json:"long_description"`
	MRP                decimal.Decimal `json:"mrp"`
	SellingPrice       decimal.Decimal `json:"selling_price"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	FormattedPrice     string          `json:"formatted_price"`
	StockQuantity      int             `json:"stock_quantity"`
	SKU                string          `json:"sku"`
	Weight             string          `json:"weight"`
	Dimensions         string          `json:"dimensions"`
	Material           string          `json:"material"`
	Tags               []string        `json:"tags"`
	CategoryID         uint            `json:"category_id"`
	Images             []Image         `json:"images"`
	IsFeatured         bool            `json:"is_featured"`
	IsActive           bool            `json:"is_active"`
	AllowCOD           bool            `json:"allow_cod"`
	CreatedAt          string          `json:"created_at"`
}

func Placeholder() Product {
	return Product{
		ID:        0,
		Name:      "Error Loading Product",
		Tags:      []string{},
		Images:    []Image{},
		CreatedAt: normalize.DateSentinel,
	}
}

// Discount derives the display percentage from mrp and selling price,
// rounded to two places. It is never taken from user input. A zero mrp
// guards the division; the caller retains whatever raw value the record
// carried.
func Discount(mrp, selling decimal.Decimal) (decimal.Decimal, bool) {
	if mrp.IsZero() {
		return decimal.Zero, false
	}
	pct := mrp.Sub(selling).Div(mrp).Mul(decimal.NewFromInt(100)).Round(2)
	if pct.IsNegative() {
		pct = decimal.Zero
	}
	return pct, true
}

func Normalize(raw map[string]interface{}, images *upstream.ImageResolver) Product {
	mrp := normalize.Price(raw, "mrp")
	selling := normalize.Price(raw, "selling_price")

	discount, ok := Discount(mrp, selling)
	if !ok {
		discount = normalize.Price(raw, "discount_percentage").Round(2)
	}

	name := normalize.String(raw, "name")
	slug := normalize.String(raw, "slug")
	if slug == "" {
		slug = normalize.Slug(name)
	}

	return Product{
		ID:                 normalize.ID(raw, "id"),
		Name:               name,
		Slug:               slug,
		ShortDescription:   normalize.String(raw, "short_description"),
		LongDescription:    normalize.String(raw, "long_description"),
		MRP:                mrp,
		SellingPrice:       selling,
		DiscountPercentage: discount,
		FormattedPrice:     utils.FormatRupee(selling),
		StockQuantity:      normalize.Int(raw, "stock_quantity"),
		SKU:                normalize.String(raw, "sku"),
		Weight:             normalize.String(raw, "weight"),
		Dimensions:         normalize.String(raw, "dimensions"),
		Material:           normalize.String(raw, "material"),
		Tags:               normalize.DetectList(raw["tags"]).Strings(),
		CategoryID:         normalize.ID(raw, "category_id"),
		Images:             normalizeImages(raw["images"], images),
		IsFeatured:         normalize.Bool(raw, "is_featured"),
		IsActive:           normalize.Bool(raw, "is_active"),
		AllowCOD:           normalize.Bool(raw, "allow_cod"),
		CreatedAt:          normalize.Date(raw, "created_at"),
	}
}

// normalizeImages accepts the image shapes the platform has emitted over
// time: arrays of URL strings, arrays of objects, legacy index-keyed
// objects. Order is preserved; index 0 is forced primary when no explicit
// primary flag survives.
func normalizeImages(v interface{}, resolver *upstream.ImageResolver) []Image {
	shape := normalize.DetectList(v)
	if shape.Kind != normalize.ShapeArray {
		out := make([]Image, 0)
		for i, url := range resolver.ResolveAll(shape.Strings()) {
			out = append(out, Image{URL: url, Position: i})
		}
		markPrimary(out)
		return out
	}

	out := make([]Image, 0)
	for _, item := range shape.Items() {
		if obj, ok := item.(map[string]interface{}); ok {
			url := normalize.StringOr(obj, "url", normalize.StringOr(obj, "image_url", normalize.String(obj, "path")))
			resolved := resolver.Resolve(url)
			if resolved == "" {
				continue
			}
			out = append(out, Image{
				URL:       resolved,
				IsPrimary: normalize.Bool(obj, "is_primary"),
				Position:  len(out),
			})
			continue
		}
		if resolved := resolver.Resolve(normalize.ScalarString(item)); resolved != "" {
			out = append(out, Image{URL: resolved, Position: len(out)})
		}
	}
	markPrimary(out)
	return out
}

func markPrimary(images []Image) {
	for i := range images {
		if images[i].IsPrimary {
			return
		}
	}
	if len(images) > 0 {
		images[0].IsPrimary = true
	}
}

package puja

import (
	"github.com/shopspring/decimal"

	"github.com/33kotidham/admin-gateway/internal/normalize"
	"github.com/33kotidham/admin-gateway/internal/upstream"
)

const (
	// MaxBenefits caps the benefit blocks shown on a puja page.
	MaxBenefits = 4
	// MaxImages caps the puja image gallery.
	MaxImages = 6
)

type Benefit struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Puja is the platform's primary bookable product: a scheduled ritual with
// temple info, benefit blocks, add-on price fields and linked plans and
// chadawas.
type Puja struct {
	ID                uint            `json:"id"`
	Name              string          `json:"name"`
	SubHeading        string          `json:"sub_heading"`
	Description       string          `json:"description"`
	Date              string          `json:"date"`
	Time              string          `json:"time"`
	TempleAddress     string          `json:"temple_address"`
	TempleDescription string          `json:"temple_description"`
	TempleImageURL    string          `json:"temple_image_url"`
	Benefits          []Benefit       `json:"benefits"`
	Category          []string        `json:"category"`
	PlanIDs           []uint          `json:"plan_ids"`
	ChadawaIDs        []uint          `json:"chadawa_ids"`
	PrasadPrice       decimal.Decimal `json:"prasad_price"`
	PrasadActive      bool            `json:"prasad_active"`
	DakshinaPrice     decimal.Decimal `json:"dakshina_price"`
	DakshinaActive    bool            `json:"dakshina_active"`
	ManokamnaPrice    decimal.Decimal `json:"manokamna_price"`
	ManokamnaActive   bool            `json:"manokamna_active"`
	IsActive          bool            `json:"is_active"`
	IsFeatured        bool            `json:"is_featured"`
	Images            []string        `json:"images"`
	CreatedAt         string          `json:"created_at"`
}

func Placeholder() Puja {
	return Puja{
		ID:         0,
		Name:       "Error Loading Puja",
		Date:       normalize.DateSentinel,
		Benefits:   []Benefit{},
		Category:   []string{},
		PlanIDs:    []uint{},
		ChadawaIDs: []uint{},
		Images:     []string{},
		CreatedAt:  normalize.DateSentinel,
	}
}

// Normalize converts one raw upstream puja into a safe record. Category is
// the platform's most inconsistent field: real arrays, legacy "{a,b,c}"
// brace strings and plain comma joins all occur, and all decode to the same
// deduplicated string slice.
func Normalize(raw map[string]interface{}, images *upstream.ImageResolver) Puja {
	benefits := normalizeBenefits(raw["benefits"])
	if len(benefits) > MaxBenefits {
		benefits = benefits[:MaxBenefits]
	}

	gallery := images.ResolveAll(normalize.DetectList(raw["images"]).Strings())
	if len(gallery) > MaxImages {
		gallery = gallery[:MaxImages]
	}

	return Puja{
		ID:                normalize.ID(raw, "id"),
		Name:              normalize.String(raw, "name"),
		SubHeading:        normalize.String(raw, "sub_heading"),
		Description:       normalize.String(raw, "description"),
		Date:              normalize.Date(raw, "date"),
		Time:              normalize.String(raw, "time"),
		TempleAddress:     normalize.String(raw, "temple_address"),
		TempleDescription: normalize.String(raw, "temple_description"),
		TempleImageURL:    images.Resolve(normalize.String(raw, "temple_image_url")),
		Benefits:          benefits,
		Category:          normalize.DetectList(raw["category"]).Strings(),
		PlanIDs:           normalize.DetectList(raw["plan_ids"]).IDs(),
		ChadawaIDs:        normalize.DetectList(raw["chadawa_ids"]).IDs(),
		PrasadPrice:       normalize.Price(raw, "prasad_price"),
		PrasadActive:      normalize.Bool(raw, "prasad_active"),
		DakshinaPrice:     normalize.Price(raw, "dakshina_price"),
		DakshinaActive:    normalize.Bool(raw, "dakshina_active"),
		ManokamnaPrice:    normalize.Price(raw, "manokamna_price"),
		ManokamnaActive:   normalize.Bool(raw, "manokamna_active"),
		IsActive:          normalize.Bool(raw, "is_active"),
		IsFeatured:        normalize.Bool(raw, "is_featured"),
		Images:            gallery,
		CreatedAt:         normalize.Date(raw, "created_at"),
	}
}

func normalizeBenefits(v interface{}) []Benefit {
	out := make([]Benefit, 0)
	for _, item := range normalize.DetectList(v).Items() {
		obj := normalize.AsMap(item)
		b := Benefit{
			Title:       normalize.String(obj, "title"),
			Description: normalize.String(obj, "description"),
		}
		if b.Title == "" && b.Description == "" {
			continue
		}
		out = append(out, b)
	}
	return out
}

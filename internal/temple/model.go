package temple

import (
	"github.com/33kotidham/admin-gateway/internal/normalize"
	"github.com/33kotidham/admin-gateway/internal/upstream"
)

// Temple is a location entity linked to available chadawas and recommended
// pujas.
type Temple struct {
	ID                 uint     `json:"id"`
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	ImageURL           string   `json:"image_url"`
	Location           string   `json:"location"`
	Slug               string   `json:"slug"`
	ChadawaIDs         []uint   `json:"chadawa_ids"`
	RecommendedPujaIDs []uint   `json:"recommended_puja_ids"`
	CreatedAt          string   `json:"created_at"`
	UpdatedAt          string   `json:"updated_at"`
}

func Placeholder() Temple {
	return Temple{
		ID:                 0,
		Name:               "Error Loading Temple",
		ChadawaIDs:         []uint{},
		RecommendedPujaIDs: []uint{},
		CreatedAt:          normalize.DateSentinel,
		UpdatedAt:          normalize.DateSentinel,
	}
}

func Normalize(raw map[string]interface{}, images *upstream.ImageResolver) Temple {
	name := normalize.String(raw, "name")
	slug := normalize.String(raw, "slug")
	if slug == "" {
		slug = normalize.Slug(name)
	}

	return Temple{
		ID:                 normalize.ID(raw, "id"),
		Name:               name,
		Description:        normalize.String(raw, "description"),
		ImageURL:           images.Resolve(normalize.String(raw, "image_url")),
		Location:           normalize.String(raw, "location"),
		Slug:               slug,
		ChadawaIDs:         normalize.DetectList(raw["chadawa_ids"]).IDs(),
		RecommendedPujaIDs: normalize.DetectList(raw["recommended_puja_ids"]).IDs(),
		CreatedAt:          normalize.Date(raw, "created_at"),
		UpdatedAt:          normalize.Date(raw, "updated_at"),
	}
}

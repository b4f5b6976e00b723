package puja

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/33kotidham/admin-gateway/internal/apperr"
	"github.com/33kotidham/admin-gateway/internal/auditlog"
	"github.com/33kotidham/admin-gateway/internal/normalize"
	"github.com/33kotidham/admin-gateway/internal/staging"
	"github.com/33kotidham/admin-gateway/internal/store"
	"github.com/33kotidham/admin-gateway/internal/upstream"
)

const basePath = "/api/v1/pujas"

type ListFilter struct {
	Search   string
	Category string
	Status   string // "", "active", "inactive", "featured"
}

type Input struct {
	Name              string
	SubHeading        string
	Description       string
	Date              string
	Time              string
	TempleAddress     string
	TempleDescription string
	TempleImageURL    string
	Benefits          []Benefit
	Category          []string
	PlanIDs           []uint
	ChadawaIDs        []uint
	PrasadPrice       decimal.Decimal
	PrasadActive      bool
	DakshinaPrice     decimal.Decimal
	DakshinaActive    bool
	ManokamnaPrice    decimal.Decimal
	ManokamnaActive   bool
	IsActive          bool
	IsFeatured        bool
}

// CreateResult carries the created record plus the partial-success warning
// for the best-effort image phase. A set Warning means the puja exists but
// some images did not attach; the create is intentionally not rolled back.
type CreateResult struct {
	Puja    *Puja  `json:"puja"`
	Warning string `json:"warning,omitempty"`
}

type Service interface {
	List(ctx context.Context, filter ListFilter) ([]Puja, error)
	Get(ctx context.Context, id uint) (*Puja, error)
	Create(ctx context.Context, in Input, templeImage, images *staging.Batch, userID *uint, ip string) (*CreateResult, error)
	Update(ctx context.Context, id uint, in Input, templeImage, images *staging.Batch, userID *uint, ip string) (*Puja, error)
	Delete(ctx context.Context, id uint, userID *uint, ip string) error
	Cache() *store.Collection[Puja]
}

type service struct {
	api      *upstream.Client
	images   *upstream.ImageResolver
	cache    *store.Collection[Puja]
	auditSvc auditlog.Service
}

func NewService(api *upstream.Client, images *upstream.ImageResolver, auditSvc auditlog.Service) Service {
	s := &service{api: api, images: images, auditSvc: auditSvc}
	s.cache = store.NewCollection(s.fetchAll)
	return s
}

func (s *service) Cache() *store.Collection[Puja] { return s.cache }

func (s *service) fetchAll(ctx context.Context) ([]Puja, error) {
	raws, err := s.api.List(ctx, basePath, nil)
	if err != nil {
		return nil, err
	}
	items := normalize.Collection(raws, func(m map[string]interface{}) Puja {
		return Normalize(m, s.images)
	}, Placeholder())
	return normalize.Keep(items, func(p Puja) bool { return p.ID > 0 }), nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]Puja, error) {
	if err := s.cache.EnsureLoaded(ctx); err != nil {
		return nil, err
	}
	items := s.cache.Snapshot()

	if filter.Search != "" {
		term := strings.ToLower(filter.Search)
		items = normalize.Keep(items, func(p Puja) bool {
			return strings.Contains(strings.ToLower(p.Name), term) ||
				strings.Contains(strings.ToLower(p.Description), term) ||
				strings.Contains(strings.ToLower(p.TempleAddress), term)
		})
	}
	if filter.Category != "" {
		cat := strings.ToLower(filter.Category)
		items = normalize.Keep(items, func(p Puja) bool {
			for _, c := range p.Category {
				if strings.ToLower(c) == cat {
					return true
				}
			}
			return false
		})
	}
	switch filter.Status {
	case "active":
		items = normalize.Keep(items, func(p Puja) bool { return p.IsActive })
	case "inactive":
		items = normalize.Keep(items, func(p Puja) bool { return !p.IsActive })
	case "featured":
		items = normalize.Keep(items, func(p Puja) bool { return p.IsFeatured })
	}
	return items, nil
}

func (s *service) Get(ctx context.Context, id uint) (*Puja, error) {
	raw, err := s.api.Get(ctx, fmt.Sprintf("%s/%d", basePath, id))
	if err != nil {
		return nil, err
	}
	p := Normalize(raw, s.images)
	return &p, nil
}

func validate(in Input, stagedImages int) error {
	if strings.TrimSpace(in.Name) == "" {
		return apperr.Validation("name is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return apperr.Validation("description is required")
	}
	if len(in.Benefits) > MaxBenefits {
		return apperr.Validation("at most %d benefits are allowed", MaxBenefits)
	}
	if stagedImages > MaxImages {
		return apperr.Validation("at most %d images are allowed", MaxImages)
	}
	if in.PrasadPrice.IsNegative() || in.DakshinaPrice.IsNegative() || in.ManokamnaPrice.IsNegative() {
		return apperr.Validation("add-on prices must not be negative")
	}
	return nil
}

func (s *service) payload(in Input, templeImageURL string) map[string]interface{} {
	benefits := make([]map[string]interface{}, 0, len(in.Benefits))
	for _, b := range in.Benefits {
		benefits = append(benefits, map[string]interface{}{
			"title":       strings.TrimSpace(b.Title),
			"description": strings.TrimSpace(b.Description),
		})
	}

	return map[string]interface{}{
		"name":               strings.TrimSpace(in.Name),
		"sub_heading":        strings.TrimSpace(in.SubHeading),
		"description":        strings.TrimSpace(in.Description),
		"date":               strings.TrimSpace(in.Date),
		"time":               strings.TrimSpace(in.Time),
		"temple_address":     strings.TrimSpace(in.TempleAddress),
		"temple_description": strings.TrimSpace(in.TempleDescription),
		"temple_image_url":   templeImageURL,
		"benefits":           benefits,
		// categories always go back as a plain comma join, braces are never
		// reintroduced
		"category":         normalize.EncodeStrings(in.Category),
		"plan_ids":         in.PlanIDs,
		"chadawa_ids":      in.ChadawaIDs,
		"prasad_price":     in.PrasadPrice.String(),
		"prasad_active":    in.PrasadActive,
		"dakshina_price":   in.DakshinaPrice.String(),
		"dakshina_active":  in.DakshinaActive,
		"manokamna_price":  in.ManokamnaPrice.String(),
		"manokamna_active": in.ManokamnaActive,
		"is_active":        in.IsActive,
		"is_featured":      in.IsFeatured,
	}
}

// Create is the three-phase flow: temple image upload (strict, when staged),
// record create (strict), gallery upload against the new ID (best effort).
// A gallery failure surfaces as a warning on the result, never a rollback.
func (s *service) Create(ctx context.Context, in Input, templeImage, images *staging.Batch, userID *uint, ip string) (*CreateResult, error) {
	stagedImages := 0
	if images != nil {
		stagedImages = len(images.Files())
	}
	if err := validate(in, stagedImages); err != nil {
		return nil, err
	}

	templeImageURL := strings.TrimSpace(in.TempleImageURL)
	if templeImage != nil && !templeImage.Empty() {
		stored, err := s.api.Upload(ctx, upstream.UploadEndpoint("pujas", 0), templeImage.Files()[0], map[string]string{"kind": "temple"})
		if err != nil {
			s.auditSvc.LogAction(ctx, userID, "puja", 0, "PUJA_CREATE_FAILED", map[string]interface{}{
				"name": in.Name, "reason": "temple image upload failed", "error": err.Error(),
			}, ip, "failure")
			return nil, err
		}
		templeImageURL = stored
	}

	raw, err := s.api.Post(ctx, basePath, s.payload(in, templeImageURL))
	if err != nil {
		s.auditSvc.LogAction(ctx, userID, "puja", 0, "PUJA_CREATE_FAILED", map[string]interface{}{
			"name": in.Name, "error": err.Error(),
		}, ip, "failure")
		return nil, err
	}

	created := Normalize(raw, s.images)
	result := &CreateResult{Puja: &created}

	if stagedImages > 0 {
		if created.ID == 0 {
			// no id in the create response means nowhere to attach the gallery
			result.Warning = fmt.Sprintf("puja created but only 0 of %d images uploaded", stagedImages)
			s.auditSvc.LogAction(ctx, userID, "puja", 0, "PUJA_IMAGES_PARTIAL", map[string]interface{}{
				"name": in.Name, "uploaded": 0, "staged": stagedImages, "reason": "create response carried no id",
			}, ip, "failure")
		} else if stored, err := s.api.UploadBatch(ctx, upstream.UploadEndpoint("pujas", created.ID), images.Files(), nil); err != nil {
			result.Warning = fmt.Sprintf("puja created but only %d of %d images uploaded", len(stored), stagedImages)
			s.auditSvc.LogAction(ctx, userID, "puja", created.ID, "PUJA_IMAGES_PARTIAL", map[string]interface{}{
				"name": in.Name, "uploaded": len(stored), "staged": stagedImages, "error": err.Error(),
			}, ip, "failure")
		}
	}

	_ = s.cache.Refresh(ctx)

	s.auditSvc.LogAction(ctx, userID, "puja", created.ID, "PUJA_CREATED", map[string]interface{}{
		"name": created.Name, "categories": created.Category,
	}, ip, "success")
	return result, nil
}

// Update resubmits the full record. A staged gallery replaces the stored
// one wholesale: existing images are deleted upstream before the new set
// is uploaded.
func (s *service) Update(ctx context.Context, id uint, in Input, templeImage, images *staging.Batch, userID *uint, ip string) (*Puja, error) {
	stagedImages := 0
	if images != nil {
		stagedImages = len(images.Files())
	}
	if err := validate(in, stagedImages); err != nil {
		return nil, err
	}

	templeImageURL := strings.TrimSpace(in.TempleImageURL)
	if templeImage != nil && !templeImage.Empty() {
		stored, err := s.api.Upload(ctx, upstream.UploadEndpoint("pujas", id), templeImage.Files()[0], map[string]string{"kind": "temple"})
		if err != nil {
			s.auditSvc.LogAction(ctx, userID, "puja", id, "PUJA_UPDATE_FAILED", map[string]interface{}{
				"name": in.Name, "reason": "temple image upload failed", "error": err.Error(),
			}, ip, "failure")
			return nil, err
		}
		templeImageURL = stored
	}

	if stagedImages > 0 {
		if err := s.api.Delete(ctx, fmt.Sprintf("%s/%d/images", basePath, id)); err != nil {
			if apperr.KindOf(err) != apperr.KindNotFound {
				s.auditSvc.LogAction(ctx, userID, "puja", id, "PUJA_UPDATE_FAILED", map[string]interface{}{
					"name": in.Name, "reason": "clearing existing images failed", "error": err.Error(),
				}, ip, "failure")
				return nil, err
			}
		}
		if _, err := s.api.UploadBatch(ctx, upstream.UploadEndpoint("pujas", id), images.Files(), nil); err != nil {
			s.auditSvc.LogAction(ctx, userID, "puja", id, "PUJA_UPDATE_FAILED", map[string]interface{}{
				"name": in.Name, "reason": "image upload failed", "error": err.Error(),
			}, ip, "failure")
			return nil, err
		}
	}

	raw, err := s.api.Put(ctx, fmt.Sprintf("%s/%d", basePath, id), s.payload(in, templeImageURL))
	if err != nil {
		s.auditSvc.LogAction(ctx, userID, "puja", id, "PUJA_UPDATE_FAILED", map[string]interface{}{
			"name": in.Name, "error": err.Error(),
		}, ip, "failure")
		return nil, err
	}

	updated := Normalize(raw, s.images)
	_ = s.cache.Refresh(ctx)

	s.auditSvc.LogAction(ctx, userID, "puja", id, "PUJA_UPDATED", map[string]interface{}{
		"name": updated.Name,
	}, ip, "success")
	return &updated, nil
}

func (s *service) Delete(ctx context.Context, id uint, userID *uint, ip string) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("%s/%d", basePath, id)); err != nil {
		s.auditSvc.LogAction(ctx, userID, "puja", id, "PUJA_DELETE_FAILED", map[string]interface{}{
			"error": err.Error(),
		}, ip, "failure")
		return err
	}

	_ = s.cache.Refresh(ctx)
	s.auditSvc.LogAction(ctx, userID, "puja", id, "PUJA_DELETED", nil, ip, "success")
	return nil
}

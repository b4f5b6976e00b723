package product

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

const basePath = "/api/v1/products"

const maxImages = 6

type ListFilter struct {
	Search     string
	CategoryID uint
	Status     string // "", "active", "inactive", "featured"
}

type Input struct {
	Name             string
	Slug             string
	ShortDescription string
	LongDescription  string
	MRP              decimal.Decimal
	SellingPrice     decimal.Decimal
	StockQuantity    int
	SKU              string
	Weight           string
	Dimensions       string
	Material         string
	Tags             []string
	CategoryID       uint
	ExistingImages   []string // resubmitted as-is when no new files are staged
	IsFeatured       bool
	IsActive         bool
	AllowCOD         bool
}

type Service interface {
	List(ctx context.Context, filter ListFilter) ([]Product, error)
	Get(ctx context.Context, id uint) (*Product, error)
	Create(ctx context.Context, in Input, images *staging.Batch, userID *uint, ip string) (*Product, error)
	Update(ctx context.Context, id uint, in Input, images *staging.Batch, userID *uint, ip string) (*Product, error)
	Delete(ctx context.Context, id uint, userID *uint, ip string) error
	Cache() *store.Collection[Product]
}

type service struct {
	api      *upstream.Client
	images   *upstream.ImageResolver
	cache    *store.Collection[Product]
	auditSvc auditlog.Service
}

func NewService(api *upstream.Client, images *upstream.ImageResolver, auditSvc auditlog.Service) Service {
	s := &service{api: api, images: images, auditSvc: auditSvc}
	s.cache = store.NewCollection(s.fetchAll)
	return s
}

func (s *service) Cache() *store.Collection[Product] { return s.cache }

func (s *service) fetchAll(ctx context.Context) ([]Product, error) {
	raws, err := s.api.List(ctx, basePath, nil)
	if err != nil {
		return nil, err
	}
	items := normalize.Collection(raws, func(m map[string]interface{}) Product {
		return Normalize(m, s.images)
	}, Placeholder())
	return normalize.Keep(items, func(p Product) bool { return p.ID > 0 }), nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]Product, error) {
	if err := s.cache.EnsureLoaded(ctx); err != nil {
		return nil, err
	}
	items := s.cache.Snapshot()

	if filter.Search != "" {
		term := strings.ToLower(filter.Search)
		items = normalize.Keep(items, func(p Product) bool {
			return strings.Contains(strings.ToLower(p.Name), term) ||
				strings.Contains(strings.ToLower(p.ShortDescription), term) ||
				strings.Contains(strings.ToLower(p.LongDescription), term) ||
				strings.Contains(strings.ToLower(p.SKU), term)
		})
	}
	if filter.CategoryID > 0 {
		items = normalize.Keep(items, func(p Product) bool { return p.CategoryID == filter.CategoryID })
	}
	switch filter.Status {
	case "active":
		items = normalize.Keep(items, func(p Product) bool { return p.IsActive })
	case "inactive":
		items = normalize.Keep(items, func(p Product) bool { return !p.IsActive })
	case "featured":
		items = normalize.Keep(items, func(p Product) bool { return p.IsFeatured })
	}
	return items, nil
}

func (s *service) Get(ctx context.Context, id uint) (*Product, error) {
	raw, err := s.api.Get(ctx, fmt.Sprintf("%s/%d", basePath, id))
	if err != nil {
		return nil, err
	}
	p := Normalize(raw, s.images)
	return &p, nil
}

func validate(in Input, staged int) error {
	if strings.TrimSpace(in.Name) == "" {
		return apperr.Validation("name is required")
	}
	if in.MRP.IsNegative() || in.SellingPrice.IsNegative() {
		return apperr.Validation("prices must not be negative")
	}
	if staged > maxImages {
		return apperr.Validation("at most %d images are allowed", maxImages)
	}
	return nil
}

func (s *service) payload(in Input, imageURLs []string) map[string]interface{} {
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = normalize.Slug(in.Name)
	}

	// discount is always recomputed from mrp and selling price, never taken
	// from the form
	discount, _ := Discount(in.MRP, in.SellingPrice)

	images := make([]map[string]interface{}, 0, len(imageURLs))
	for i, url := range imageURLs {
		images = append(images, map[string]interface{}{
			"url":        url,
			"is_primary": i == 0,
			"position":   i,
		})
	}

	return map[string]interface{}{
		"name":                strings.TrimSpace(in.Name),
		"slug":                slug,
		"short_description":   strings.TrimSpace(in.ShortDescription),
		"long_description":    strings.TrimSpace(in.LongDescription),
		"mrp":                 in.MRP.String(),
		"selling_price":       in.SellingPrice.String(),
		"discount_percentage": discount.StringFixed(2),
		"stock_quantity":      in.StockQuantity,
		"sku":                 strings.TrimSpace(in.SKU),
		"weight":              strings.TrimSpace(in.Weight),
		"dimensions":          strings.TrimSpace(in.Dimensions),
		"material":            strings.TrimSpace(in.Material),
		"tags":                normalize.EncodeStrings(in.Tags),
		"category_id":         in.CategoryID,
		"images":              images,
		"is_featured":         in.IsFeatured,
		"is_active":           in.IsActive,
		"allow_cod":           in.AllowCOD,
	}
}

// Create uploads the staged images first; any upload failure skips the
// create call entirely. The created record references the stored paths in
// staged (display) order.
func (s *service) Create(ctx context.Context, in Input, images *staging.Batch, userID *uint, ip string) (*Product, error) {
	staged := 0
	if images != nil {
		staged = len(images.Files())
	}
	if err := validate(in, staged); err != nil {
		return nil, err
	}

	var urls []string
	if staged > 0 {
		stored, err := s.api.UploadBatch(ctx, upstream.UploadEndpoint("products", 0), images.Files(), nil)
		if err != nil {
			s.auditSvc.LogAction(ctx, userID, "product", 0, "PRODUCT_CREATE_FAILED", map[string]interface{}{
				"name": in.Name, "reason": "image upload failed", "uploaded": len(stored), "error": err.Error(),
			}, ip, "failure")
			return nil, err
		}
		urls = stored
	}

	raw, err := s.api.Post(ctx, basePath, s.payload(in, urls))
	if err != nil {
		s.auditSvc.LogAction(ctx, userID, "product", 0, "PRODUCT_CREATE_FAILED", map[string]interface{}{
			"name": in.Name, "error": err.Error(),
		}, ip, "failure")
		return nil, err
	}

	created := Normalize(raw, s.images)
	_ = s.cache.Refresh(ctx)

	s.auditSvc.LogAction(ctx, userID, "product", created.ID, "PRODUCT_CREATED", map[string]interface{}{
		"name": created.Name, "sku": created.SKU, "selling_price": created.SellingPrice.String(),
	}, ip, "success")
	return &created, nil
}

// Update applies replace-all image semantics: when new files are staged,
// every previously stored image is deleted upstream before the new set is
// uploaded, so the record ends up with exactly the staged images. With no
// staged files the existing URLs are resubmitted untouched.
func (s *service) Update(ctx context.Context, id uint, in Input, images *staging.Batch, userID *uint, ip string) (*Product, error) {
	staged := 0
	if images != nil {
		staged = len(images.Files())
	}
	if err := validate(in, staged); err != nil {
		return nil, err
	}

	urls := in.ExistingImages
	if staged > 0 {
		if err := s.api.Delete(ctx, fmt.Sprintf("%s/%d/images", basePath, id)); err != nil {
			if apperr.KindOf(err) != apperr.KindNotFound {
				s.auditSvc.LogAction(ctx, userID, "product", id, "PRODUCT_UPDATE_FAILED", map[string]interface{}{
					"name": in.Name, "reason": "clearing existing images failed", "error": err.Error(),
				}, ip, "failure")
				return nil, err
			}
		}

		stored, err := s.api.UploadBatch(ctx, upstream.UploadEndpoint("products", id), images.Files(), nil)
		if err != nil {
			s.auditSvc.LogAction(ctx, userID, "product", id, "PRODUCT_UPDATE_FAILED", map[string]interface{}{
				"name": in.Name, "reason": "image upload failed", "uploaded": len(stored), "error": err.Error(),
			}, ip, "failure")
			return nil, err
		}
		urls = stored
	}

	raw, err := s.api.Put(ctx, fmt.Sprintf("%s/%d", basePath, id), s.payload(in, urls))
	if err != nil {
		s.auditSvc.LogAction(ctx, userID, "product", id, "PRODUCT_UPDATE_FAILED", map[string]interface{}{
			"name": in.Name, "error": err.Error(),
		}, ip, "failure")
		return nil, err
	}

	updated := Normalize(raw, s.images)
	_ = s.cache.Refresh(ctx)

	s.auditSvc.LogAction(ctx, userID, "product", id, "PRODUCT_UPDATED", map[string]interface{}{
		"name": updated.Name, "images": len(updated.Images),
	}, ip, "success")
	return &updated, nil
}

func (s *service) Delete(ctx context.Context, id uint, userID *uint, ip string) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("%s/%d", basePath, id)); err != nil {
		s.auditSvc.LogAction(ctx, userID, "product", id, "PRODUCT_DELETE_FAILED", map[string]interface{}{
			"error": err.Error(),
		}, ip, "failure")
		return err
	}

	_ = s.cache.Refresh(ctx)
	s.auditSvc.LogAction(ctx, userID, "product", id, "PRODUCT_DELETED", nil, ip, "success")
	return nil
}

package chadawa

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

const basePath = "/api/v1/chadawas"

type ListFilter struct {
	Search string
}

type Input struct {
	Name         string
	Description  string
	Price        decimal.Decimal
	RequiresNote bool
	ImageURL     string // existing stored path, kept when no new file staged
}

type Service interface {
	List(ctx context.Context, filter ListFilter) ([]Chadawa, error)
	Get(ctx context.Context, id uint) (*Chadawa, error)
	Create(ctx context.Context, in Input, image *staging.Batch, userID *uint, ip string) (*Chadawa, error)
	Update(ctx context.Context, id uint, in Input, image *staging.Batch, userID *uint, ip string) (*Chadawa, error)
	Delete(ctx context.Context, id uint, userID *uint, ip string) error
	Cache() *store.Collection[Chadawa]
}

type service struct {
	api      *upstream.Client
	images   *upstream.ImageResolver
	cache    *store.Collection[Chadawa]
	auditSvc auditlog.Service
}

func NewService(api *upstream.Client, images *upstream.ImageResolver, auditSvc auditlog.Service) Service {
	s := &service{api: api, images: images, auditSvc: auditSvc}
	s.cache = store.NewCollection(s.fetchAll)
	return s
}

func (s *service) Cache() *store.Collection[Chadawa] { return s.cache }

func (s *service) fetchAll(ctx context.Context) ([]Chadawa, error) {
	raws, err := s.api.List(ctx, basePath, nil)
	if err != nil {
		return nil, err
	}
	items := normalize.Collection(raws, func(m map[string]interface{}) Chadawa {
		return Normalize(m, s.images)
	}, Placeholder())
	return normalize.Keep(items, func(c Chadawa) bool { return c.ID > 0 }), nil
}

// List serves the cached collection; the first call triggers exactly one
// upstream fetch. Search matches name and description, case-insensitive.
func (s *service) List(ctx context.Context, filter ListFilter) ([]Chadawa, error) {
	if err := s.cache.EnsureLoaded(ctx); err != nil {
		return nil, err
	}
	items := s.cache.Snapshot()
	if filter.Search == "" {
		return items, nil
	}
	term := strings.ToLower(filter.Search)
	return normalize.Keep(items, func(c Chadawa) bool {
		return strings.Contains(strings.ToLower(c.Name), term) ||
			strings.Contains(strings.ToLower(c.Description), term)
	}), nil
}

// Get always fetches the authoritative record by ID, never the cached
// summary.
func (s *service) Get(ctx context.Context, id uint) (*Chadawa, error) {
	raw, err := s.api.Get(ctx, fmt.Sprintf("%s/%d", basePath, id))
	if err != nil {
		return nil, err
	}
	c := Normalize(raw, s.images)
	return &c, nil
}

func validate(in Input) error {
	if strings.TrimSpace(in.Name) == "" {
		return apperr.Validation("name is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return apperr.Validation("description is required")
	}
	if in.Price.IsNegative() {
		return apperr.Validation("price must not be negative")
	}
	return nil
}

// Create is a strict two-phase flow: the image upload must succeed before
// the create call is issued at all. On success the collection is refreshed
// wholesale.
func (s *service) Create(ctx context.Context, in Input, image *staging.Batch, userID *uint, ip string) (*Chadawa, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	if image == nil || image.Empty() {
		return nil, apperr.Validation("image is required")
	}

	stored, err := s.api.Upload(ctx, upstream.UploadEndpoint("chadawa", 0), image.Files()[0], nil)
	if err != nil {
		s.auditSvc.LogAction(ctx, userID, "chadawa", 0, "CHADAWA_CREATE_FAILED", map[string]interface{}{
			"name": in.Name, "reason": "image upload failed", "error": err.Error(),
		}, ip, "failure")
		return nil, err
	}

	payload := map[string]interface{}{
		"name":          strings.TrimSpace(in.Name),
		"description":   strings.TrimSpace(in.Description),
		"price":         in.Price.String(),
		"requires_note": in.RequiresNote,
		"image_url":     stored,
	}
	raw, err := s.api.Post(ctx, basePath, payload)
	if err != nil {
		s.auditSvc.LogAction(ctx, userID, "chadawa", 0, "CHADAWA_CREATE_FAILED", map[string]interface{}{
			"name": in.Name, "error": err.Error(),
		}, ip, "failure")
		return nil, err
	}

	created := Normalize(raw, s.images)
	// the create landed; a failed refresh leaves a stale list, not an error
	_ = s.cache.Refresh(ctx)

	s.auditSvc.LogAction(ctx, userID, "chadawa", created.ID, "CHADAWA_CREATED", map[string]interface{}{
		"name": created.Name, "price": created.Price.String(),
	}, ip, "success")
	return &created, nil
}

// Update resubmits the full record. A staged image replaces the stored one;
// otherwise the existing URL is resubmitted as-is.
func (s *service) Update(ctx context.Context, id uint, in Input, image *staging.Batch, userID *uint, ip string) (*Chadawa, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	imageURL := strings.TrimSpace(in.ImageURL)
	if image != nil && !image.Empty() {
		stored, err := s.api.Upload(ctx, upstream.UploadEndpoint("chadawa", id), image.Files()[0], nil)
		if err != nil {
			s.auditSvc.LogAction(ctx, userID, "chadawa", id, "CHADAWA_UPDATE_FAILED", map[string]interface{}{
				"name": in.Name, "reason": "image upload failed", "error": err.Error(),
			}, ip, "failure")
			return nil, err
		}
		imageURL = stored
	}

	payload := map[string]interface{}{
		"name":          strings.TrimSpace(in.Name),
		"description":   strings.TrimSpace(in.Description),
		"price":         in.Price.String(),
		"requires_note": in.RequiresNote,
		"image_url":     imageURL,
	}
	raw, err := s.api.Put(ctx, fmt.Sprintf("%s/%d", basePath, id), payload)
	if err != nil {
		s.auditSvc.LogAction(ctx, userID, "chadawa", id, "CHADAWA_UPDATE_FAILED", map[string]interface{}{
			"name": in.Name, "error": err.Error(),
		}, ip, "failure")
		return nil, err
	}

	updated := Normalize(raw, s.images)
	_ = s.cache.Refresh(ctx)

	s.auditSvc.LogAction(ctx, userID, "chadawa", id, "CHADAWA_UPDATED", map[string]interface{}{
		"name": updated.Name, "price": updated.Price.String(),
	}, ip, "success")
	return &updated, nil
}

func (s *service) Delete(ctx context.Context, id uint, userID *uint, ip string) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("%s/%d", basePath, id)); err != nil {
		s.auditSvc.LogAction(ctx, userID, "chadawa", id, "CHADAWA_DELETE_FAILED", map[string]interface{}{
			"error": err.Error(),
		}, ip, "failure")
		return err
	}

	_ = s.cache.Refresh(ctx)
	s.auditSvc.LogAction(ctx, userID, "chadawa", id, "CHADAWA_DELETED", nil, ip, "success")
	return nil
}

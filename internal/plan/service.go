package plan

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

const basePath = "/api/v1/plans"

type ListFilter struct {
	Search string
}

type Input struct {
	Name            string
	Description     string
	ActualPrice     decimal.Decimal
	DiscountedPrice decimal.Decimal
	ImageURL        string
}

type Service interface {
	List(ctx context.Context, filter ListFilter) ([]Plan, error)
	Get(ctx context.Context, id uint) (*Plan, error)
	Create(ctx context.Context, in Input, image *staging.Batch, userID *uint, ip string) (*Plan, error)
	Update(ctx context.Context, id uint, in Input, image *staging.Batch, userID *uint, ip string) (*Plan, error)
	Delete(ctx context.Context, id uint, userID *uint, ip string) error
	Cache() *store.Collection[Plan]
}

type service struct {
	api      *upstream.Client
	images   *upstream.ImageResolver
	cache    *store.Collection[Plan]
	auditSvc auditlog.Service
}

func NewService(api *upstream.Client, images *upstream.ImageResolver, auditSvc auditlog.Service) Service {
	s := &service{api: api, images: images, auditSvc: auditSvc}
	s.cache = store.NewCollection(s.fetchAll)
	return s
}

func (s *service) Cache() *store.Collection[Plan] { return s.cache }

func (s *service) fetchAll(ctx context.Context) ([]Plan, error) {
	raws, err := s.api.List(ctx, basePath, nil)
	if err != nil {
		return nil, err
	}
	items := normalize.Collection(raws, func(m map[string]interface{}) Plan {
		return Normalize(m, s.images)
	}, Placeholder())
	return normalize.Keep(items, func(p Plan) bool { return p.ID > 0 }), nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]Plan, error) {
	if err := s.cache.EnsureLoaded(ctx); err != nil {
		return nil, err
	}
	items := s.cache.Snapshot()
	if filter.Search == "" {
		return items, nil
	}
	term := strings.ToLower(filter.Search)
	return normalize.Keep(items, func(p Plan) bool {
		return strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Description), term)
	}), nil
}

func (s *service) Get(ctx context.Context, id uint) (*Plan, error) {
	raw, err := s.api.Get(ctx, fmt.Sprintf("%s/%d", basePath, id))
	if err != nil {
		return nil, err
	}
	p := Normalize(raw, s.images)
	return &p, nil
}

func validate(in Input) error {
	if strings.TrimSpace(in.Name) == "" {
		return apperr.Validation("name is required")
	}
	if in.ActualPrice.IsNegative() || in.DiscountedPrice.IsNegative() {
		return apperr.Validation("prices must not be negative")
	}
	if in.DiscountedPrice.GreaterThan(in.ActualPrice) && !in.ActualPrice.IsZero() {
		return apperr.Validation("discounted price cannot exceed actual price")
	}
	return nil
}

func (s *service) payload(in Input, imageURL string) map[string]interface{} {
	return map[string]interface{}{
		"name":             strings.TrimSpace(in.Name),
		"description":      strings.TrimSpace(in.Description),
		"actual_price":     in.ActualPrice.String(),
		"discounted_price": in.DiscountedPrice.String(),
		"image_url":        imageURL,
	}
}

func (s *service) Create(ctx context.Context, in Input, image *staging.Batch, userID *uint, ip string) (*Plan, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	imageURL := ""
	if image != nil && !image.Empty() {
		stored, err := s.api.Upload(ctx, upstream.UploadEndpoint("plan", 0), image.Files()[0], nil)
		if err != nil {
			s.auditSvc.LogAction(ctx, userID, "plan", 0, "PLAN_CREATE_FAILED", map[string]interface{}{
				"name": in.Name, "reason": "image upload failed", "error": err.Error(),
			}, ip, "failure")
			return nil, err
		}
		imageURL = stored
	}

	raw, err := s.api.Post(ctx, basePath, s.payload(in, imageURL))
	if err != nil {
		s.auditSvc.LogAction(ctx, userID, "plan", 0, "PLAN_CREATE_FAILED", map[string]interface{}{
			"name": in.Name, "error": err.Error(),
		}, ip, "failure")
		return nil, err
	}

	created := Normalize(raw, s.images)
	_ = s.cache.Refresh(ctx)

	s.auditSvc.LogAction(ctx, userID, "plan", created.ID, "PLAN_CREATED", map[string]interface{}{
		"name": created.Name, "actual_price": created.ActualPrice.String(),
	}, ip, "success")
	return &created, nil
}

func (s *service) Update(ctx context.Context, id uint, in Input, image *staging.Batch, userID *uint, ip string) (*Plan, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	imageURL := strings.TrimSpace(in.ImageURL)
	if image != nil && !image.Empty() {
		stored, err := s.api.Upload(ctx, upstream.UploadEndpoint("plan", id), image.Files()[0], nil)
		if err != nil {
			s.auditSvc.LogAction(ctx, userID, "plan", id, "PLAN_UPDATE_FAILED", map[string]interface{}{
				"name": in.Name, "reason": "image upload failed", "error": err.Error(),
			}, ip, "failure")
			return nil, err
		}
		imageURL = stored
	}

	raw, err := s.api.Put(ctx, fmt.Sprintf("%s/%d", basePath, id), s.payload(in, imageURL))
	if err != nil {
		s.auditSvc.LogAction(ctx, userID, "plan", id, "PLAN_UPDATE_FAILED", map[string]interface{}{
			"name": in.Name, "error": err.Error(),
		}, ip, "failure")
		return nil, err
	}

	updated := Normalize(raw, s.images)
	_ = s.cache.Refresh(ctx)

	s.auditSvc.LogAction(ctx, userID, "plan", id, "PLAN_UPDATED", map[string]interface{}{
		"name": updated.Name,
	}, ip, "success")
	return &updated, nil
}

func (s *service) Delete(ctx context.Context, id uint, userID *uint, ip string) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("%s/%d", basePath, id)); err != nil {
		s.auditSvc.LogAction(ctx, userID, "plan", id, "PLAN_DELETE_FAILED", map[string]interface{}{
			"error": err.Error(),
		}, ip, "failure")
		return err
	}

	_ = s.cache.Refresh(ctx)
	s.auditSvc.LogAction(ctx, userID, "plan", id, "PLAN_DELETED", nil, ip, "success")
	return nil
}

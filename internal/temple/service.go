package temple

import (
	"context"
	"fmt"
	"strings"

	"github.com/33kotidham/admin-gateway/internal/apperr"
	"github.com/33kotidham/admin-gateway/internal/auditlog"
	"github.com/33kotidham/admin-gateway/internal/normalize"
	"github.com/33kotidham/admin-gateway/internal/staging"
	"github.com/33kotidham/admin-gateway/internal/store"
	"github.com/33kotidham/admin-gateway/internal/upstream"
)

const basePath = "/api/v1/temples"

type ListFilter struct {
	Search string
}

type Input struct {
	Name               string
	Description        string
	Location           string
	Slug               string
	ChadawaIDs         []uint
	RecommendedPujaIDs []uint
	ImageURL           string
}

type Service interface {
	List(ctx context.Context, filter ListFilter) ([]Temple, error)
	Get(ctx context.Context, id uint) (*Temple, error)
	Create(ctx context.Context, in Input, image *staging.Batch, userID *uint, ip string) (*Temple, error)
	Update(ctx context.Context, id uint, in Input, image *staging.Batch, userID *uint, ip string) (*Temple, error)
	Delete(ctx context.Context, id uint, userID *uint, ip string) error
	Cache() *store.Collection[Temple]
}

type service struct {
	api      *upstream.Client
	images   *upstream.ImageResolver
	cache    *store.Collection[Temple]
	auditSvc auditlog.Service
}

func NewService(api *upstream.Client, images *upstream.ImageResolver, auditSvc auditlog.Service) Service {
	s := &service{api: api, images: images, auditSvc: auditSvc}
	s.cache = store.NewCollection(s.fetchAll)
	return s
}

func (s *service) Cache() *store.Collection[Temple] { return s.cache }

func (s *service) fetchAll(ctx context.Context) ([]Temple, error) {
	raws, err := s.api.List(ctx, basePath, nil)
	if err != nil {
		return nil, err
	}
	items := normalize.Collection(raws, func(m map[string]interface{}) Temple {
		return Normalize(m, s.images)
	}, Placeholder())
	return normalize.Keep(items, func(t Temple) bool { return t.ID > 0 }), nil
}

// List serves the cache; search matches name, description and location.
func (s *service) List(ctx context.Context, filter ListFilter) ([]Temple, error) {
	if err := s.cache.EnsureLoaded(ctx); err != nil {
		return nil, err
	}
	items := s.cache.Snapshot()
	if filter.Search == "" {
		return items, nil
	}
	term := strings.ToLower(filter.Search)
	return normalize.Keep(items, func(t Temple) bool {
		return strings.Contains(strings.ToLower(t.Name), term) ||
			strings.Contains(strings.ToLower(t.Description), term) ||
			strings.Contains(strings.ToLower(t.Location), term)
	}), nil
}

func (s *service) Get(ctx context.Context, id uint) (*Temple, error) {
	raw, err := s.api.Get(ctx, fmt.Sprintf("%s/%d", basePath, id))
	if err != nil {
		return nil, err
	}
	t := Normalize(raw, s.images)
	return &t, nil
}

func validate(in Input) error {
	if strings.TrimSpace(in.Name) == "" {
		return apperr.Validation("name is required")
	}
	if strings.TrimSpace(in.Location) == "" {
		return apperr.Validation("location is required")
	}
	return nil
}

func (s *service) payload(in Input, imageURL string) map[string]interface{} {
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = normalize.Slug(in.Name)
	}
	return map[string]interface{}{
		"name":                 strings.TrimSpace(in.Name),
		"description":          strings.TrimSpace(in.Description),
		"location":             strings.TrimSpace(in.Location),
		"slug":                 slug,
		"chadawa_ids":          in.ChadawaIDs,
		"recommended_puja_ids": in.RecommendedPujaIDs,
		"image_url":            imageURL,
	}
}

func (s *service) Create(ctx context.Context, in Input, image *staging.Batch, userID *uint, ip string) (*Temple, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	imageURL := ""
	if image != nil && !image.Empty() {
		stored, err := s.api.Upload(ctx, upstream.UploadEndpoint("temples", 0), image.Files()[0], nil)
		if err != nil {
			s.auditSvc.LogAction(ctx, userID, "temple", 0, "TEMPLE_CREATE_FAILED", map[string]interface{}{
				"name": in.Name, "reason": "image upload failed", "error": err.Error(),
			}, ip, "failure")
			return nil, err
		}
		imageURL = stored
	}

	raw, err := s.api.Post(ctx, basePath, s.payload(in, imageURL))
	if err != nil {
		s.auditSvc.LogAction(ctx, userID, "temple", 0, "TEMPLE_CREATE_FAILED", map[string]interface{}{
			"name": in.Name, "error": err.Error(),
		}, ip, "failure")
		return nil, err
	}

	created := Normalize(raw, s.images)
	_ = s.cache.Refresh(ctx)

	s.auditSvc.LogAction(ctx, userID, "temple", created.ID, "TEMPLE_CREATED", map[string]interface{}{
		"name": created.Name, "location": created.Location,
	}, ip, "success")
	return &created, nil
}

func (s *service) Update(ctx context.Context, id uint, in Input, image *staging.Batch, userID *uint, ip string) (*Temple, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	imageURL := strings.TrimSpace(in.ImageURL)
	if image != nil && !image.Empty() {
		stored, err := s.api.Upload(ctx, upstream.UploadEndpoint("temples", id), image.Files()[0], nil)
		if err != nil {
			s.auditSvc.LogAction(ctx, userID, "temple", id, "TEMPLE_UPDATE_FAILED", map[string]interface{}{
				"name": in.Name, "reason": "image upload failed", "error": err.Error(),
			}, ip, "failure")
			return nil, err
		}
		imageURL = stored
	}

	raw, err := s.api.Put(ctx, fmt.Sprintf("%s/%d", basePath, id), s.payload(in, imageURL))
	if err != nil {
		s.auditSvc.LogAction(ctx, userID, "temple", id, "TEMPLE_UPDATE_FAILED", map[string]interface{}{
			"name": in.Name, "error": err.Error(),
		}, ip, "failure")
		return nil, err
	}

	updated := Normalize(raw, s.images)
	_ = s.cache.Refresh(ctx)

	s.auditSvc.LogAction(ctx, userID, "temple", id, "TEMPLE_UPDATED", map[string]interface{}{
		"name": updated.Name,
	}, ip, "success")
	return &updated, nil
}

func (s *service) Delete(ctx context.Context, id uint, userID *uint, ip string) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("%s/%d", basePath, id)); err != nil {
		s.auditSvc.LogAction(ctx, userID, "temple", id, "TEMPLE_DELETE_FAILED", map[string]interface{}{
			"error": err.Error(),
		}, ip, "failure")
		return err
	}

	_ = s.cache.Refresh(ctx)
	s.auditSvc.LogAction(ctx, userID, "temple", id, "TEMPLE_DELETED", nil, ip, "success")
	return nil
}

package product

import (
	"context"
	"strings"

	"github.com/33kotidham/admin-gateway/internal/apperr"
	"github.com/33kotidham/admin-gateway/internal/auditlog"
	"github.com/33kotidham/admin-gateway/internal/normalize"
	"github.com/33kotidham/admin-gateway/internal/store"
	"github.com/33kotidham/admin-gateway/internal/upstream"
)

const categoryPath = "/api/v1/product-categories"

// Category groups products. Created inline from the product form, so it
// lives in this package rather than its own.
type Category struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

func CategoryPlaceholder() Category {
	return Category{ID: 0, Name: "Error Loading Category"}
}

func NormalizeCategory(raw map[string]interface{}) Category {
	return Category{
		ID:          normalize.ID(raw, "id"),
		Name:        normalize.String(raw, "name"),
		Description: normalize.String(raw, "description"),
		IsActive:    normalize.Bool(raw, "is_active"),
	}
}

type CategoryInput struct {
	Name        string
	Description string
	IsActive    bool
}

type CategoryService interface {
	List(ctx context.Context) ([]Category, error)
	Create(ctx context.Context, in CategoryInput, userID *uint, ip string) (*Category, error)
	Cache() *store.Collection[Category]
}

type categoryService struct {
	api      *upstream.Client
	cache    *store.Collection[Category]
	auditSvc auditlog.Service
}

func NewCategoryService(api *upstream.Client, auditSvc auditlog.Service) CategoryService {
	s := &categoryService{api: api, auditSvc: auditSvc}
	s.cache = store.NewCollection(s.fetchAll)
	return s
}

func (s *categoryService) Cache() *store.Collection[Category] { return s.cache }

func (s *categoryService) fetchAll(ctx context.Context) ([]Category, error) {
	raws, err := s.api.List(ctx, categoryPath, nil)
	if err != nil {
		return nil, err
	}
	items := normalize.Collection(raws, NormalizeCategory, CategoryPlaceholder())
	return normalize.Keep(items, func(c Category) bool { return c.ID > 0 }), nil
}

func (s *categoryService) List(ctx context.Context) ([]Category, error) {
	if err := s.cache.EnsureLoaded(ctx); err != nil {
		return nil, err
	}
	return s.cache.Snapshot(), nil
}

func (s *categoryService) Create(ctx context.Context, in CategoryInput, userID *uint, ip string) (*Category, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperr.Validation("category name is required")
	}

	raw, err := s.api.Post(ctx, categoryPath, map[string]interface{}{
		"name":        strings.TrimSpace(in.Name),
		"description": strings.TrimSpace(in.Description),
		"is_active":   in.IsActive,
	})
	if err != nil {
		s.auditSvc.LogAction(ctx, userID, "product_category", 0, "PRODUCT_CATEGORY_CREATE_FAILED", map[string]interface{}{
			"name": in.Name, "error": err.Error(),
		}, ip, "failure")
		return nil, err
	}

	created := NormalizeCategory(raw)
	_ = s.cache.Refresh(ctx)

	s.auditSvc.LogAction(ctx, userID, "product_category", created.ID, "PRODUCT_CATEGORY_CREATED", map[string]interface{}{
		"name": created.Name,
	}, ip, "success")
	return &created, nil
}

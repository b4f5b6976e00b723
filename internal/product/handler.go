package product

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/33kotidham/admin-gateway/internal/apperr"
	"github.com/33kotidham/admin-gateway/internal/staging"
	"github.com/33kotidham/admin-gateway/middleware"
)

type Handler struct {
	service     Service
	categorySvc CategoryService
	area        *staging.Area
}

func NewHandler(service Service, categorySvc CategoryService, area *staging.Area) *Handler {
	return &Handler{service: service, categorySvc: categorySvc, area: area}
}

// GetProducts handles GET /products?search=&category_id=&status=
func (h *Handler) GetProducts(c *gin.Context) {
	filter := ListFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
	}
	if v := c.Query("category_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			filter.CategoryID = uint(id)
		}
	}

	items, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "total": len(items)})
}

func (h *Handler) GetProductByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	item, err := h.service.Get(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, item)
}

func inputFromForm(c *gin.Context) Input {
	mrp, _ := decimal.NewFromString(strings.TrimSpace(c.PostForm("mrp")))
	selling, _ := decimal.NewFromString(strings.TrimSpace(c.PostForm("selling_price")))
	stock, _ := strconv.Atoi(c.PostForm("stock_quantity"))
	if stock < 0 {
		stock = 0
	}
	var categoryID uint
	if v, err := strconv.ParseUint(c.PostForm("category_id"), 10, 32); err == nil {
		categoryID = uint(v)
	}

	var tags []string
	for _, t := range strings.Split(c.PostForm("tags"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	var existing []string
	for _, u := range c.PostFormArray("existing_images") {
		if u = strings.TrimSpace(u); u != "" {
			existing = append(existing, u)
		}
	}

	return Input{
		Name:             c.PostForm("name"),
		Slug:             c.PostForm("slug"),
		ShortDescription: c.PostForm("short_description"),
		LongDescription:  c.PostForm("long_description"),
		MRP:              mrp,
		SellingPrice:     selling,
		StockQuantity:    stock,
		SKU:              c.PostForm("sku"),
		Weight:           c.PostForm("weight"),
		Dimensions:       c.PostForm("dimensions"),
		Material:         c.PostForm("material"),
		Tags:             tags,
		CategoryID:       categoryID,
		ExistingImages:   existing,
		IsFeatured:       c.PostForm("is_featured") == "true",
		IsActive:         c.PostForm("is_active") != "false",
		AllowCOD:         c.PostForm("allow_cod") == "true",
	}
}

// stageImages stages the "images" multipart files in submitted order. An
// optional primary_index form field promotes that file to index 0, which
// the upload order treats as the primary display image.
func (h *Handler) stageImages(c *gin.Context) (*staging.Batch, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return h.area.Stage(nil)
	}

	batch, err := h.area.Stage(form.File["images"])
	if err != nil {
		return nil, err
	}

	if v := c.PostForm("primary_index"); v != "" {
		if idx, err := strconv.Atoi(v); err == nil && idx > 0 {
			if err := batch.Move(idx, 0); err != nil {
				batch.Close()
				return nil, err
			}
		}
	}
	return batch, nil
}

func (h *Handler) CreateProduct(c *gin.Context) {
	batch, err := h.stageImages(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer batch.Close()

	created, err := h.service.Create(c.Request.Context(), inputFromForm(c), batch,
		middleware.UserIDFromContext(c), middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	batch, err := h.stageImages(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer batch.Close()

	updated, err := h.service.Update(c.Request.Context(), uint(id), inputFromForm(c), batch,
		middleware.UserIDFromContext(c), middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), uint(id),
		middleware.UserIDFromContext(c), middleware.GetIPFromContext(c)); err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}

// GetCategories handles GET /product-categories.
func (h *Handler) GetCategories(c *gin.Context) {
	items, err := h.categorySvc.List(c.Request.Context())
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "total": len(items)})
}

type categoryReq struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

// CreateCategory handles POST /product-categories, used inline from the
// product form.
func (h *Handler) CreateCategory(c *gin.Context) {
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	created, err := h.categorySvc.Create(c.Request.Context(), CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    active,
	}, middleware.UserIDFromContext(c), middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

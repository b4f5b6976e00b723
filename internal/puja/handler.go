package puja

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/33kotidham/admin-gateway/internal/apperr"
	"github.com/33kotidham/admin-gateway/internal/normalize"
	"github.com/33kotidham/admin-gateway/internal/staging"
	"github.com/33kotidham/admin-gateway/middleware"
)

type Handler struct {
	service Service
	area    *staging.Area
}

func NewHandler(service Service, area *staging.Area) *Handler {
	return &Handler{service: service, area: area}
}

// GetPujas handles GET /pujas?search=&category=&status=
func (h *Handler) GetPujas(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), ListFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Status:   c.Query("status"),
	})
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "total": len(items)})
}

func (h *Handler) GetPujaByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid puja id"})
		return
	}

	item, err := h.service.Get(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, item)
}

func formPrice(c *gin.Context, field string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(c.PostForm(field)))
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

func formIDs(c *gin.Context, field string) []uint {
	return normalize.DetectList(c.PostForm(field)).IDs()
}

// inputFromForm reads the multipart puja form. Benefits arrive as a JSON
// array in the "benefits" field; category and ID lists in any of the
// platform's historical shapes.
func inputFromForm(c *gin.Context) Input {
	var benefits []Benefit
	if raw := c.PostForm("benefits"); raw != "" {
		// a malformed benefits blob degrades to none rather than failing the form
		_ = json.Unmarshal([]byte(raw), &benefits)
	}

	return Input{
		Name:              c.PostForm("name"),
		SubHeading:        c.PostForm("sub_heading"),
		Description:       c.PostForm("description"),
		Date:              c.PostForm("date"),
		Time:              c.PostForm("time"),
		TempleAddress:     c.PostForm("temple_address"),
		TempleDescription: c.PostForm("temple_description"),
		TempleImageURL:    c.PostForm("temple_image_url"),
		Benefits:          benefits,
		Category:          normalize.DetectList(c.PostForm("category")).Strings(),
		PlanIDs:           formIDs(c, "plan_ids"),
		ChadawaIDs:        formIDs(c, "chadawa_ids"),
		PrasadPrice:       formPrice(c, "prasad_price"),
		PrasadActive:      c.PostForm("prasad_active") == "true",
		DakshinaPrice:     formPrice(c, "dakshina_price"),
		DakshinaActive:    c.PostForm("dakshina_active") == "true",
		ManokamnaPrice:    formPrice(c, "manokamna_price"),
		ManokamnaActive:   c.PostForm("manokamna_active") == "true",
		IsActive:          c.PostForm("is_active") != "false",
		IsFeatured:        c.PostForm("is_featured") == "true",
	}
}

func (h *Handler) stageBatches(c *gin.Context) (templeImage, images *staging.Batch, err error) {
	var templeFiles []*multipart.FileHeader
	if fh, ferr := c.FormFile("temple_image"); ferr == nil {
		templeFiles = []*multipart.FileHeader{fh}
	}
	templeImage, err = h.area.Stage(templeFiles)
	if err != nil {
		return nil, nil, err
	}

	var galleryFiles []*multipart.FileHeader
	if form, ferr := c.MultipartForm(); ferr == nil {
		galleryFiles = form.File["images"]
	}
	images, err = h.area.Stage(galleryFiles)
	if err != nil {
		templeImage.Close()
		return nil, nil, err
	}
	return templeImage, images, nil
}

func (h *Handler) CreatePuja(c *gin.Context) {
	templeImage, images, err := h.stageBatches(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to stage uploads"})
		return
	}
	defer templeImage.Close()
	defer images.Close()

	result, err := h.service.Create(c.Request.Context(), inputFromForm(c), templeImage, images,
		middleware.UserIDFromContext(c), middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *Handler) UpdatePuja(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid puja id"})
		return
	}

	templeImage, images, err := h.stageBatches(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to stage uploads"})
		return
	}
	defer templeImage.Close()
	defer images.Close()

	updated, err := h.service.Update(c.Request.Context(), uint(id), inputFromForm(c), templeImage, images,
		middleware.UserIDFromContext(c), middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeletePuja(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid puja id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), uint(id),
		middleware.UserIDFromContext(c), middleware.GetIPFromContext(c)); err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "puja deleted"})
}

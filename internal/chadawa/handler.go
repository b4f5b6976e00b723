package chadawa

import (
	"mime/multipart"
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
	service Service
	area    *staging.Area
}

func NewHandler(service Service, area *staging.Area) *Handler {
	return &Handler{service: service, area: area}
}

// GetChadawas handles GET /chadawas?search=
func (h *Handler) GetChadawas(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), ListFilter{Search: c.Query("search")})
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "total": len(items)})
}

// GetChadawaByID handles GET /chadawas/:id
func (h *Handler) GetChadawaByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chadawa id"})
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
	price, _ := decimal.NewFromString(strings.TrimSpace(c.PostForm("price")))
	return Input{
		Name:         c.PostForm("name"),
		Description:  c.PostForm("description"),
		Price:        price,
		RequiresNote: c.PostForm("requires_note") == "true",
		ImageURL:     c.PostForm("image_url"),
	}
}

// stageImage pulls the optional "image" file from the multipart form into a
// staging batch. Callers own the batch and must Close it.
func (h *Handler) stageImage(c *gin.Context) (*staging.Batch, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		// no file selected is a valid state, the service decides if one is required
		return h.area.Stage(nil)
	}
	return h.area.Stage([]*multipart.FileHeader{fh})
}

// CreateChadawa handles POST /chadawas (multipart: fields + image file).
func (h *Handler) CreateChadawa(c *gin.Context) {
	batch, err := h.stageImage(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to stage upload"})
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

// UpdateChadawa handles PUT /chadawas/:id.
func (h *Handler) UpdateChadawa(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chadawa id"})
		return
	}

	batch, err := h.stageImage(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to stage upload"})
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

// DeleteChadawa handles DELETE /chadawas/:id.
func (h *Handler) DeleteChadawa(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chadawa id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), uint(id),
		middleware.UserIDFromContext(c), middleware.GetIPFromContext(c)); err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "chadawa deleted"})
}

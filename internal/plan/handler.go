package plan

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

func (h *Handler) GetPlans(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), ListFilter{Search: c.Query("search")})
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "total": len(items)})
}

func (h *Handler) GetPlanByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan id"})
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
	actual, _ := decimal.NewFromString(strings.TrimSpace(c.PostForm("actual_price")))
	discounted, _ := decimal.NewFromString(strings.TrimSpace(c.PostForm("discounted_price")))
	return Input{
		Name:            c.PostForm("name"),
		Description:     c.PostForm("description"),
		ActualPrice:     actual,
		DiscountedPrice: discounted,
		ImageURL:        c.PostForm("image_url"),
	}
}

func (h *Handler) stageImage(c *gin.Context) (*staging.Batch, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return h.area.Stage(nil)
	}
	return h.area.Stage([]*multipart.FileHeader{fh})
}

func (h *Handler) CreatePlan(c *gin.Context) {
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

func (h *Handler) UpdatePlan(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan id"})
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

func (h *Handler) DeletePlan(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), uint(id),
		middleware.UserIDFromContext(c), middleware.GetIPFromContext(c)); err != nil {
		c.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "plan deleted"})
}

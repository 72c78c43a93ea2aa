// Package delivery exposes an owned record kind over HTTP.
package delivery

import (
	"fmt"
	"net/http"

	authdelivery "fittrack-backend/internal/auth/delivery"
	"fittrack-backend/internal/owned/domain"
	"fittrack-backend/internal/owned/usecase"
	"fittrack-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Patch changes an existing record. Fields absent from the body are left
// alone.
type Patch[PT any] interface {
	ApplyTo(rec PT)
}

// Payload is a full representation used for POST and PUT.
type Payload[PT any] interface {
	Patch[PT]
	ToRecord() PT
}

// Binding tells the handler how to decode request bodies for a kind.
type Binding[PT any] struct {
	NewPayload func() Payload[PT]
	NewPatch   func() Patch[PT]
}

// Handler serves the CRUD and bulk-delete routes of one record kind.
type Handler[T any, PT domain.Model[T]] struct {
	svc     *usecase.Service[T, PT]
	binding Binding[PT]
	log     *zap.Logger
}

func NewHandler[T any, PT domain.Model[T]](svc *usecase.Service[T, PT], binding Binding[PT], log *zap.Logger) *Handler[T, PT] {
	return &Handler[T, PT]{svc: svc, binding: binding, log: log}
}

// RegisterRoutes mounts the standard routes on rg. Extra kind-specific routes
// can be added to the same group afterwards.
func (h *Handler[T, PT]) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.DELETE("/delete_all", h.DeleteAll)
	rg.DELETE("/delete_by_date", h.DeleteByDate)
	rg.DELETE("/delete_by_category", h.DeleteByCategory)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Replace)
	rg.PATCH("/:id", h.Patch)
	rg.DELETE("/:id", h.Delete)
}

// List
// GET /api/{kind}
func (h *Handler[T, PT]) List(c *gin.Context) {
	records, err := h.svc.List(c.Request.Context(), authdelivery.CurrentUserID(c))
	if err != nil {
		apperror.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// Get
// GET /api/{kind}/:id
func (h *Handler[T, PT]) Get(c *gin.Context) {
	rec, err := h.svc.Get(c.Request.Context(), authdelivery.CurrentUserID(c), c.Param("id"))
	if err != nil {
		apperror.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Create
// POST /api/{kind}
func (h *Handler[T, PT]) Create(c *gin.Context) {
	payload := h.binding.NewPayload()
	if err := c.ShouldBindJSON(payload); err != nil {
		apperror.Respond(c, h.log, apperror.FromBinding(err))
		return
	}

	rec, err := h.svc.Create(c.Request.Context(), authdelivery.CurrentUserID(c), payload.ToRecord())
	if err != nil {
		apperror.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// Replace overwrites every writable field
// PUT /api/{kind}/:id
func (h *Handler[T, PT]) Replace(c *gin.Context) {
	payload := h.binding.NewPayload()
	if err := c.ShouldBindJSON(payload); err != nil {
		apperror.Respond(c, h.log, apperror.FromBinding(err))
		return
	}
	h.update(c, payload)
}

// Patch
// PATCH /api/{kind}/:id
func (h *Handler[T, PT]) Patch(c *gin.Context) {
	patch := h.binding.NewPatch()
	if err := c.ShouldBindJSON(patch); err != nil {
		apperror.Respond(c, h.log, apperror.FromBinding(err))
		return
	}
	h.update(c, patch)
}

func (h *Handler[T, PT]) update(c *gin.Context, patch Patch[PT]) {
	rec, err := h.svc.Update(c.Request.Context(), authdelivery.CurrentUserID(c), c.Param("id"), func(rec PT) error {
		patch.ApplyTo(rec)
		return nil
	})
	if err != nil {
		apperror.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Delete
// DELETE /api/{kind}/:id
func (h *Handler[T, PT]) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), authdelivery.CurrentUserID(c), c.Param("id")); err != nil {
		apperror.Respond(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteAll
// DELETE /api/{kind}/delete_all
func (h *Handler[T, PT]) DeleteAll(c *gin.Context) {
	n, err := h.svc.DeleteAll(c.Request.Context(), authdelivery.CurrentUserID(c))
	h.bulkResult(c, n, err, "all records deleted")
}

// DeleteByDate
// DELETE /api/{kind}/delete_by_date?date=YYYY-MM-DD
func (h *Handler[T, PT]) DeleteByDate(c *gin.Context) {
	date := c.Query("date")
	n, err := h.svc.DeleteByDate(c.Request.Context(), authdelivery.CurrentUserID(c), date)
	h.bulkResult(c, n, err, fmt.Sprintf("records for %s deleted", date))
}

// DeleteByCategory reads the kind's own query parameter, e.g. meal_type for
// nutrition.
// DELETE /api/{kind}/delete_by_category?category=...
func (h *Handler[T, PT]) DeleteByCategory(c *gin.Context) {
	param := h.svc.Kind().CategoryParam
	category := c.Query(param)
	if category == "" && param != "category" {
		category = c.Query("category")
	}

	n, err := h.svc.DeleteByCategory(c.Request.Context(), authdelivery.CurrentUserID(c), category)
	h.bulkResult(c, n, err, fmt.Sprintf("records with %s %q deleted", param, category))
}

func (h *Handler[T, PT]) bulkResult(c *gin.Context, n int64, err error, message string) {
	if err != nil {
		apperror.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "deleted": n})
}

package delivery

import (
	"net/http"

	authdelivery "fittrack-backend/internal/auth/delivery"
	"fittrack-backend/internal/goal/domain"
	"fittrack-backend/internal/goal/dto"
	"fittrack-backend/internal/goal/usecase"
	owneddelivery "fittrack-backend/internal/owned/delivery"
	"fittrack-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GoalHandler handles goal HTTP requests
type GoalHandler struct {
	*owneddelivery.Handler[domain.Goal, *domain.Goal]
	uc  *usecase.GoalUsecase
	log *zap.Logger
}

func NewGoalHandler(uc *usecase.GoalUsecase, log *zap.Logger) *GoalHandler {
	return &GoalHandler{
		Handler: owneddelivery.NewHandler(uc.Service, owneddelivery.Binding[*domain.Goal]{
			NewPayload: func() owneddelivery.Payload[*domain.Goal] { return &dto.GoalRequest{} },
			NewPatch:   func() owneddelivery.Patch[*domain.Goal] { return &dto.GoalPatch{} },
		}, log),
		uc:  uc,
		log: log,
	}
}

func (h *GoalHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/achieved", h.ListAchieved)
	rg.GET("/in_progress", h.ListInProgress)
	rg.GET("/by_category", h.ListByCategory)
	rg.PATCH("/:id/toggle_achieved", h.ToggleAchieved)
	rg.PATCH("/:id/update_progress", h.UpdateProgress)
	h.Handler.RegisterRoutes(rg)
}

// ToggleAchieved
// PATCH /api/goals/:id/toggle_achieved
func (h *GoalHandler) ToggleAchieved(c *gin.Context) {
	goal, err := h.uc.ToggleAchieved(c.Request.Context(), authdelivery.CurrentUserID(c), c.Param("id"))
	if err != nil {
		apperror.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, goal)
}

// UpdateProgress
// PATCH /api/goals/:id/update_progress {"progress": 0..100}
func (h *GoalHandler) UpdateProgress(c *gin.Context) {
	var req dto.UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, h.log, apperror.FromBinding(err))
		return
	}

	goal, err := h.uc.UpdateProgress(c.Request.Context(), authdelivery.CurrentUserID(c), c.Param("id"), req.Progress)
	if err != nil {
		apperror.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, goal)
}

// ListAchieved
// GET /api/goals/achieved
func (h *GoalHandler) ListAchieved(c *gin.Context) {
	goals, err := h.uc.Achieved(c.Request.Context(), authdelivery.CurrentUserID(c))
	h.respondList(c, goals, err)
}

// ListInProgress
// GET /api/goals/in_progress
func (h *GoalHandler) ListInProgress(c *gin.Context) {
	goals, err := h.uc.InProgress(c.Request.Context(), authdelivery.CurrentUserID(c))
	h.respondList(c, goals, err)
}

// ListByCategory
// GET /api/goals/by_category?category=weight
func (h *GoalHandler) ListByCategory(c *gin.Context) {
	goals, err := h.uc.ByCategory(c.Request.Context(), authdelivery.CurrentUserID(c), c.Query("category"))
	h.respondList(c, goals, err)
}

func (h *GoalHandler) respondList(c *gin.Context, goals []domain.Goal, err error) {
	if err != nil {
		apperror.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, goals)
}

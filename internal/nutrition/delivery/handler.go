package delivery

import (
	"net/http"

	authdelivery "fittrack-backend/internal/auth/delivery"
	"fittrack-backend/internal/nutrition/domain"
	"fittrack-backend/internal/nutrition/dto"
	"fittrack-backend/internal/nutrition/usecase"
	owneddelivery "fittrack-backend/internal/owned/delivery"
	"fittrack-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NutritionHandler serves the nutrition log and its daily aggregates
type NutritionHandler struct {
	*owneddelivery.Handler[domain.Nutrition, *domain.Nutrition]
	uc  *usecase.NutritionUsecase
	log *zap.Logger
}

func NewNutritionHandler(uc *usecase.NutritionUsecase, log *zap.Logger) *NutritionHandler {
	dto.RegisterValidators()
	return &NutritionHandler{
		Handler: owneddelivery.NewHandler(uc.Service, owneddelivery.Binding[*domain.Nutrition]{
			NewPayload: func() owneddelivery.Payload[*domain.Nutrition] { return &dto.NutritionRequest{} },
			NewPatch:   func() owneddelivery.Patch[*domain.Nutrition] { return &dto.NutritionPatch{} },
		}, log),
		uc:  uc,
		log: log,
	}
}

func (h *NutritionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/today_stats", h.TodayStats)
	rg.GET("/daily_stats", h.DailyStats)
	rg.DELETE("/delete_by_meal_type", h.DeleteByCategory)
	h.Handler.RegisterRoutes(rg)
}

// TodayStats
// GET /api/nutrition/today_stats
func (h *NutritionHandler) TodayStats(c *gin.Context) {
	stats, err := h.uc.TodayStats(c.Request.Context(), authdelivery.CurrentUserID(c))
	if err != nil {
		apperror.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// DailyStats
// GET /api/nutrition/daily_stats?date=YYYY-MM-DD
func (h *NutritionHandler) DailyStats(c *gin.Context) {
	stats, err := h.uc.DailyStats(c.Request.Context(), authdelivery.CurrentUserID(c), c.Query("date"))
	if err != nil {
		apperror.Respond(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

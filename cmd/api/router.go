package api

import (
	"net/http"

	"fittrack-backend/internal/auth/delivery"
	goalDelivery "fittrack-backend/internal/goal/delivery"
	nutritionDelivery "fittrack-backend/internal/nutrition/delivery"
	workoutDelivery "fittrack-backend/internal/workout/delivery"
	"fittrack-backend/pkg/config"
	"fittrack-backend/pkg/database"
	"fittrack-backend/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewRouter builds the engine with the global middleware chain and all routes.
func NewRouter(uc Usecases, db *gorm.DB, cfg *config.Config, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(log), middleware.RequestLogger(log), middleware.CORS(cfg.CORSOrigins))
	SetupRoutes(r, uc, db, log)
	return r
}

func SetupRoutes(r *gin.Engine, uc Usecases, db *gorm.DB, log *zap.Logger) {
	authHandler := delivery.NewAuthHandler(uc.Auth, log)
	requireAuth := delivery.AuthMiddleware(uc.Auth, log)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", healthCheck(db, log))
		api.GET("/metrics", gin.WrapH(promhttp.Handler()))

		// Session routes
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)
		api.POST("/logout", authHandler.Logout)
		api.POST("/token/refresh", authHandler.RefreshToken)

		// Account routes (protected)
		account := api.Group("")
		account.Use(requireAuth)
		{
			account.GET("/me", authHandler.Me)
			account.GET("/profile", authHandler.GetProfile)
			account.PUT("/profile", authHandler.UpdateProfile)
			account.POST("/change_password", authHandler.ChangePassword)
			account.POST("/devices", authHandler.RegisterDevice)
			account.DELETE("/devices/:token", authHandler.UnregisterDevice)
		}

		goals := api.Group("/goals")
		goals.Use(requireAuth)
		goalDelivery.NewGoalHandler(uc.Goals, log).RegisterRoutes(goals)

		workouts := api.Group("/workouts")
		workouts.Use(requireAuth)
		workoutDelivery.NewWorkoutHandler(uc.Workouts, log).RegisterRoutes(workouts)

		nutrition := api.Group("/nutrition")
		nutrition.Use(requireAuth)
		nutritionDelivery.NewNutritionHandler(uc.Nutrition, log).RegisterRoutes(nutrition)
	}
}

// healthCheck
// GET /api/health
func healthCheck(db *gorm.DB, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := database.Ping(c.Request.Context(), db); err != nil {
			log.Warn("health_check_failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
	}
}

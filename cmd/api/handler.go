package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	authUsecase "fittrack-backend/internal/auth/usecase"
	goalUsecase "fittrack-backend/internal/goal/usecase"
	nutritionUsecase "fittrack-backend/internal/nutrition/usecase"
	workoutUsecase "fittrack-backend/internal/workout/usecase"
	"fittrack-backend/pkg/config"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Usecases bundles the application services exposed over HTTP.
type Usecases struct {
	Auth      authUsecase.AuthUsecase
	Goals     *goalUsecase.GoalUsecase
	Workouts  *workoutUsecase.WorkoutUsecase
	Nutrition *nutritionUsecase.NutritionUsecase
}

type Handler struct {
	log    *zap.Logger
	server *http.Server
}

// NewHandler builds the server for addr. The server is ready before Start so
// that Shutdown is safe from any goroutine.
func NewHandler(addr string, usecases Usecases, db *gorm.DB, cfg *config.Config, log *zap.Logger) *Handler {
	return &Handler{
		log: log,
		server: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(usecases, db, cfg, log),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Start serves until Shutdown is called. A clean shutdown returns nil.
func (h *Handler) Start() error {
	h.log.Info("server_starting", zap.String("addr", h.server.Addr))
	if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests. A
// server shut down before Start never serves.
func (h *Handler) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

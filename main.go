package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "fittrack-backend/cmd/api"
	authdomain "fittrack-backend/internal/auth/domain"
	authRepo "fittrack-backend/internal/auth/repository"
	"fittrack-backend/internal/auth/scheduler"
	authUsecase "fittrack-backend/internal/auth/usecase"
	goaldomain "fittrack-backend/internal/goal/domain"
	goalUsecase "fittrack-backend/internal/goal/usecase"
	nutritiondomain "fittrack-backend/internal/nutrition/domain"
	nutritionRepo "fittrack-backend/internal/nutrition/repository"
	nutritionUsecase "fittrack-backend/internal/nutrition/usecase"
	ownedRepo "fittrack-backend/internal/owned/repository"
	ownedUsecase "fittrack-backend/internal/owned/usecase"
	workoutdomain "fittrack-backend/internal/workout/domain"
	workoutUsecase "fittrack-backend/internal/workout/usecase"
	"fittrack-backend/pkg/cache"
	"fittrack-backend/pkg/config"
	"fittrack-backend/pkg/database"
	"fittrack-backend/pkg/events"
	"fittrack-backend/pkg/fcm"
	"fittrack-backend/pkg/logger"
	"fittrack-backend/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log := logger.New(cfg.LogLevel, cfg.LogFile)
	defer func() { _ = log.Sync() }()

	metrics.Init()
	gin.SetMode(gin.ReleaseMode)

	// Initialize database
	db, err := database.NewPostgresConnection(cfg, log)
	if err != nil {
		log.Fatal("database_connect_failed", zap.Error(err))
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&authdomain.User{}, &authdomain.RefreshSession{}, &authdomain.DeviceToken{},
		&goaldomain.Goal{}, &workoutdomain.Workout{}, &nutritiondomain.Nutrition{},
	); err != nil {
		log.Fatal("database_migrate_failed", zap.Error(err))
	}

	loc := cfg.Location()
	ctx := context.Background()

	// Optional infrastructure: every piece falls back to a no-op
	var statsCache cache.Cache = cache.Nop{}
	if cfg.RedisAddr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Warn("redis_unavailable", zap.Error(err))
		} else {
			defer func() { _ = client.Close() }()
			statsCache = cache.NewRedisCache(client)
			log.Info("redis_connected", zap.String("addr", cfg.RedisAddr))
		}
	}

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		log.Info("kafka_publisher_enabled", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warn("kafka_publisher_close_failed", zap.Error(err))
		}
	}()

	var sender fcm.Sender
	if cfg.FirebaseCredentials != "" {
		client, err := fcm.NewClient(ctx, cfg.FirebaseCredentials)
		if err != nil {
			log.Warn("fcm_unavailable", zap.Error(err))
		} else {
			sender = client
			log.Info("fcm_enabled")
		}
	}

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db)
	sessionRepo := authRepo.NewSessionRepository(db)
	deviceRepo := authRepo.NewDeviceRepository(db)

	// Initialize use cases (dependency injection)
	eventObserver := ownedUsecase.NewEventObserver(publisher, log)
	notifier := goalUsecase.NewAchievementNotifier(sender, deviceRepo, log)

	usecases := api.Usecases{
		Auth: authUsecase.NewAuthUsecase(userRepo, sessionRepo, deviceRepo, cfg, log),
		Goals: goalUsecase.NewGoalUsecase(
			ownedRepo.New[goaldomain.Goal, *goaldomain.Goal](db),
			notifier, loc, log, eventObserver,
		),
		Workouts: workoutUsecase.NewWorkoutUsecase(
			ownedRepo.New[workoutdomain.Workout, *workoutdomain.Workout](db),
			loc, log, eventObserver,
		),
		Nutrition: nutritionUsecase.NewNutritionUsecase(
			ownedRepo.New[nutritiondomain.Nutrition, *nutritiondomain.Nutrition](db),
			nutritionRepo.NewStatsRepository(db),
			statsCache, cfg.StatsCacheTTL, loc, log, eventObserver,
		),
	}

	cleanup := scheduler.NewSessionCleanupScheduler(usecases.Auth, cfg.SessionCleanupSchedule, log)
	if err := cleanup.Start(); err != nil {
		log.Fatal("session_cleanup_schedule_invalid", zap.String("schedule", cfg.SessionCleanupSchedule), zap.Error(err))
	}

	// Start server
	handler := api.NewHandler(":"+cfg.Port, usecases, db, cfg, log)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- handler.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			log.Error("server_failed", zap.Error(err))
		}
	case sig := <-quit:
		log.Info("shutdown_requested", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := handler.Shutdown(shutdownCtx); err != nil {
		log.Error("server_shutdown_failed", zap.Error(err))
	}

	cleanup.Stop()
	notifier.Wait()
	// drain queued record events before the deferred publisher.Close
	if err := eventObserver.Close(shutdownCtx); err != nil {
		log.Warn("record_events_not_drained", zap.Error(err))
	}
	log.Info("server_stopped")
}

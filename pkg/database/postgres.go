package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fittrack-backend/pkg/config"
)

const (
	maxRetries   = 10
	retryBackoff = 2 * time.Second
)

// NewPostgresConnection opens the gorm pool, retrying while the database
// container is still starting.
func NewPostgresConnection(cfg *config.Config, zl *zap.Logger) (*gorm.DB, error) {
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	// gorm.Open keeps a reference to its config, so each attempt gets a fresh one
	newGormConfig := func() *gorm.Config {
		return &gorm.Config{
			Logger:         gormLogger,
			NowFunc:        func() time.Time { return time.Now().UTC() },
			TranslateError: true,
		}
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		db, err := connectOnce(postgres.Open(cfg.DSN()), newGormConfig())
		if err == nil {
			zl.Info("database_connected", zap.String("host", cfg.DBHost), zap.Int("attempt", attempt))
			return db, nil
		}

		lastErr = err
		zl.Warn("database_not_ready", zap.Int("attempt", attempt), zap.Int("max_attempts", maxRetries), zap.Error(err))
		time.Sleep(retryBackoff)
	}

	return nil, fmt.Errorf("connect to database after %d attempts: %w", maxRetries, lastErr)
}

// connectOnce opens a pool and verifies it; a pool that fails verification is
// closed before returning.
func connectOnce(dialector gorm.Dialector, gormCfg *gorm.Config) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, err
	}
	if err := configurePool(db); err != nil {
		closeDB(db)
		return nil, err
	}
	return db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func configurePool(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.Ping(); err != nil {
		return err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return nil
}

// Ping reports whether the underlying pool can reach the database.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

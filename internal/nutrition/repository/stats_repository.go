package repository

import (
	"context"
	"time"

	"fittrack-backend/internal/nutrition/domain"

	"gorm.io/gorm"
)

// StatsRepository computes nutrient totals over stored records.
type StatsRepository interface {
	// SumBetween totals the owner's records created in [start, end).
	SumBetween(ctx context.Context, ownerID string, start, end time.Time) (*domain.DailyStats, error)
}

type statsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) SumBetween(ctx context.Context, ownerID string, start, end time.Time) (*domain.DailyStats, error) {
	var stats domain.DailyStats
	err := r.db.WithContext(ctx).
		Model(&domain.Nutrition{}).
		Select(`COALESCE(SUM(calories), 0) AS total_calories,
			COALESCE(SUM(protein), 0) AS total_protein,
			COALESCE(SUM(carbohydrates), 0) AS total_carbohydrates,
			COALESCE(SUM(fats), 0) AS total_fats`).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", ownerID, start, end).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

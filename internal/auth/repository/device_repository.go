package repository

import (
	"context"
	"time"

	authdomain "fittrack-backend/internal/auth/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type deviceRepository struct {
	db *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) DeviceRepository {
	return &deviceRepository{db: db}
}

// Save registers a token for userID. A token already known (e.g. the device
// switched accounts) is reassigned to userID.
func (r *deviceRepository) Save(ctx context.Context, userID, token, deviceInfo string) error {
	now := time.Now().UTC()
	device := &authdomain.DeviceToken{
		ID:         uuid.New().String(),
		UserID:     userID,
		Token:      token,
		DeviceInfo: deviceInfo,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "device_info", "updated_at"}),
	}).Create(device).Error
}

func (r *deviceRepository) ListByUser(ctx context.Context, userID string) ([]authdomain.DeviceToken, error) {
	var devices []authdomain.DeviceToken
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&devices).Error
	if err != nil {
		return nil, err
	}
	return devices, nil
}

func (r *deviceRepository) Delete(ctx context.Context, userID, token string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND token = ?", userID, token).
		Delete(&authdomain.DeviceToken{})
	return res.RowsAffected, res.Error
}

// DeleteTokens drops tokens the push provider reported as invalid.
func (r *deviceRepository) DeleteTokens(ctx context.Context, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("token IN ?", tokens).Delete(&authdomain.DeviceToken{}).Error
}

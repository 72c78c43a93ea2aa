package repository

import (
	"context"
	"errors"
	"time"

	authdomain "fittrack-backend/internal/auth/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) FindByID(ctx context.Context, id string) (*authdomain.RefreshSession, error) {
	var session authdomain.RefreshSession
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) StartExclusive(ctx context.Context, session *authdomain.RefreshSession, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := blacklistWhere(tx, now, "user_id = ?", session.UserID).Error; err != nil {
			return err
		}
		return tx.Create(session).Error
	})
}

func (r *sessionRepository) Rotate(ctx context.Context, oldID string, next *authdomain.RefreshSession, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current authdomain.RefreshSession
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", oldID).
			First(&current).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSessionInactive
		}
		if err != nil {
			return err
		}
		if !current.Active(now) || current.UserID != next.UserID {
			return ErrSessionInactive
		}

		if err := blacklistWhere(tx, now, "id = ?", oldID).Error; err != nil {
			return err
		}
		return tx.Create(next).Error
	})
}

func (r *sessionRepository) Blacklist(ctx context.Context, id string, now time.Time) (bool, error) {
	res := blacklistWhere(r.db.WithContext(ctx), now, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *sessionRepository) BlacklistAllForUser(ctx context.Context, userID string, now time.Time) (int64, error) {
	res := blacklistWhere(r.db.WithContext(ctx), now, "user_id = ?", userID)
	return res.RowsAffected, res.Error
}

// DeleteExpired removes sessions that can no longer be presented anyway.
func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&authdomain.RefreshSession{})
	return res.RowsAffected, res.Error
}

func blacklistWhere(db *gorm.DB, now time.Time, query string, arg interface{}) *gorm.DB {
	return db.Model(&authdomain.RefreshSession{}).
		Where(query, arg).
		Where("blacklisted_at IS NULL").
		Update("blacklisted_at", now)
}

// Package repository implements ownership-scoped persistence for any record
// kind that embeds domain.Base.
package repository

import (
	"context"
	"errors"

	"fittrack-backend/internal/owned/domain"
	"fittrack-backend/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Filter is an extra WHERE condition ANDed with the owner scope.
type Filter struct {
	Query string
	Args  []interface{}
}

func Where(query string, args ...interface{}) Filter {
	return Filter{Query: query, Args: args}
}

// Repository never returns or touches rows owned by someone other than the
// ownerID it is given.
type Repository[T any, PT domain.Model[T]] interface {
	// FindAll lists the owner's records newest first. An empty owner yields
	// an empty list.
	FindAll(ctx context.Context, ownerID string, filters ...Filter) ([]T, error)
	// FindByID returns (nil, nil) when the record is absent or not owned.
	FindByID(ctx context.Context, ownerID, id string) (PT, error)
	// Create assigns a fresh id and the owner, whatever the record carried.
	Create(ctx context.Context, ownerID string, rec PT) error
	// Update locks the row, checks ownership and saves the result of mutate
	// in one transaction. apperror.ErrNotFound or apperror.ErrForbidden.
	Update(ctx context.Context, ownerID, id string, mutate func(PT) error) (PT, error)
	// Delete is Update's counterpart for removal.
	Delete(ctx context.Context, ownerID, id string) error
	// DeleteWhere removes the owner's records matching filters in a single
	// statement and returns the number of rows removed.
	DeleteWhere(ctx context.Context, ownerID string, filters ...Filter) (int64, error)
}

type gormRepository[T any, PT domain.Model[T]] struct {
	db *gorm.DB
}

// New returns a gorm-backed Repository for T.
func New[T any, PT domain.Model[T]](db *gorm.DB) Repository[T, PT] {
	return &gormRepository[T, PT]{db: db}
}

func scoped(db *gorm.DB, ownerID string, filters []Filter) *gorm.DB {
	q := db.Where("user_id = ?", ownerID)
	for _, f := range filters {
		q = q.Where(f.Query, f.Args...)
	}
	return q
}

func (r *gormRepository[T, PT]) FindAll(ctx context.Context, ownerID string, filters ...Filter) ([]T, error) {
	records := []T{}
	if ownerID == "" {
		return records, nil
	}

	err := scoped(r.db.WithContext(ctx), ownerID, filters).
		Order("created_at DESC").
		Order("id").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *gormRepository[T, PT]) FindByID(ctx context.Context, ownerID, id string) (PT, error) {
	if ownerID == "" {
		return nil, nil
	}

	var rec T
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return PT(&rec), nil
}

func (r *gormRepository[T, PT]) Create(ctx context.Context, ownerID string, rec PT) error {
	rec.SetID(uuid.New().String())
	rec.SetOwnerID(ownerID)
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *gormRepository[T, PT]) Update(ctx context.Context, ownerID, id string, mutate func(PT) error) (PT, error) {
	var updated PT
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := r.lockOwned(tx, ownerID, id)
		if err != nil {
			return err
		}

		if err := mutate(rec); err != nil {
			return err
		}
		// The payload may not move the record.
		rec.SetID(id)
		rec.SetOwnerID(ownerID)

		if err := tx.Save(rec).Error; err != nil {
			return err
		}
		updated = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *gormRepository[T, PT]) Delete(ctx context.Context, ownerID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := r.lockOwned(tx, ownerID, id)
		if err != nil {
			return err
		}
		return tx.Delete(rec).Error
	})
}

// lockOwned loads id with FOR UPDATE and verifies the owner.
func (r *gormRepository[T, PT]) lockOwned(tx *gorm.DB, ownerID, id string) (PT, error) {
	var rec T
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	ptr := PT(&rec)
	if ownerID == "" || ptr.OwnerID() != ownerID {
		return nil, apperror.ErrForbidden
	}
	return ptr, nil
}

func (r *gormRepository[T, PT]) DeleteWhere(ctx context.Context, ownerID string, filters ...Filter) (int64, error) {
	if ownerID == "" {
		return 0, nil
	}

	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := scoped(tx, ownerID, filters).Delete(PT(new(T)))
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	return deleted, err
}

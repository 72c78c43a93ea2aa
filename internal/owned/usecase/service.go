// Package usecase is the business layer shared by every owned record kind:
// CRUD scoped to the caller plus the bulk delete operations.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fittrack-backend/internal/owned/domain"
	"fittrack-backend/internal/owned/repository"
	"fittrack-backend/pkg/apperror"
	"fittrack-backend/pkg/dateutil"
	"fittrack-backend/pkg/metrics"

	"go.uber.org/zap"
)

// Options configures a Service.
type Options[T any, PT domain.Model[T]] struct {
	Kind domain.Kind
	// Prepare derives dependent fields before validation.
	Prepare func(PT)
	// Validate runs on the final state of a record before it is written.
	Validate func(PT) error
	// OnUpdated runs after an update has been committed.
	OnUpdated func(ctx context.Context, before, after PT)
	// Location is the reference zone for delete_by_date. Defaults to UTC.
	Location  *time.Location
	Observers []domain.Observer
	Log       *zap.Logger
}

// Service implements the ownership-scoped operations for one record kind.
type Service[T any, PT domain.Model[T]] struct {
	repo      repository.Repository[T, PT]
	kind      domain.Kind
	prepare   func(PT)
	validate  func(PT) error
	onUpdated func(ctx context.Context, before, after PT)
	loc       *time.Location
	observers []domain.Observer
	log       *zap.Logger
	now       func() time.Time
}

func NewService[T any, PT domain.Model[T]](repo repository.Repository[T, PT], opts Options[T, PT]) *Service[T, PT] {
	s := &Service[T, PT]{
		repo:      repo,
		kind:      opts.Kind,
		prepare:   opts.Prepare,
		validate:  opts.Validate,
		onUpdated: opts.OnUpdated,
		loc:       opts.Location,
		observers: opts.Observers,
		log:       opts.Log,
		now:       func() time.Time { return time.Now().UTC() },
	}
	if s.prepare == nil {
		s.prepare = func(PT) {}
	}
	if s.validate == nil {
		s.validate = func(PT) error { return nil }
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

func (s *Service[T, PT]) Kind() domain.Kind {
	return s.kind
}

// AddObserver registers o for changes committed after this call.
func (s *Service[T, PT]) AddObserver(o domain.Observer) {
	s.observers = append(s.observers, o)
}

func (s *Service[T, PT]) List(ctx context.Context, ownerID string, filters ...repository.Filter) ([]T, error) {
	records, err := s.repo.FindAll(ctx, ownerID, filters...)
	if err != nil {
		return nil, s.wrap("list", err)
	}
	return records, nil
}

func (s *Service[T, PT]) Get(ctx context.Context, ownerID, id string) (PT, error) {
	rec, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, s.wrap("get", err)
	}
	if rec == nil {
		return nil, apperror.ErrNotFound
	}
	return rec, nil
}

func (s *Service[T, PT]) Create(ctx context.Context, ownerID string, rec PT) (PT, error) {
	if ownerID == "" {
		return nil, apperror.Authentication("authentication required")
	}
	s.prepare(rec)
	if err := s.validate(rec); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, ownerID, rec); err != nil {
		return nil, s.wrap("create", err)
	}

	s.emit(ctx, domain.Change{Action: domain.ActionCreate, UserID: ownerID, RecordID: rec.GetID(), Count: 1})
	return rec, nil
}

// Update applies apply to the locked record; apply sees the stored state and
// the result is validated before it is saved.
func (s *Service[T, PT]) Update(ctx context.Context, ownerID, id string, apply func(PT) error) (PT, error) {
	var before T
	rec, err := s.repo.Update(ctx, ownerID, id, func(rec PT) error {
		before = *rec
		if err := apply(rec); err != nil {
			return err
		}
		s.prepare(rec)
		return s.validate(rec)
	})
	if err != nil {
		if errors.Is(err, apperror.ErrForbidden) {
			s.log.Warn("foreign_record_update_denied",
				zap.String("kind", s.kind.Name), zap.String("user_id", ownerID), zap.String("record_id", id))
		}
		return nil, s.wrap("update", err)
	}

	s.emit(ctx, domain.Change{Action: domain.ActionUpdate, UserID: ownerID, RecordID: id, Count: 1})
	if s.onUpdated != nil {
		s.onUpdated(ctx, PT(&before), rec)
	}
	return rec, nil
}

func (s *Service[T, PT]) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, apperror.ErrForbidden) {
			s.log.Warn("foreign_record_delete_denied",
				zap.String("kind", s.kind.Name), zap.String("user_id", ownerID), zap.String("record_id", id))
		}
		return s.wrap("delete", err)
	}

	s.emit(ctx, domain.Change{Action: domain.ActionDelete, UserID: ownerID, RecordID: id, Count: 1})
	return nil
}

// DeleteAll removes every record of the caller. Zero rows is a success.
func (s *Service[T, PT]) DeleteAll(ctx context.Context, ownerID string) (int64, error) {
	return s.bulkDelete(ctx, ownerID, domain.ActionDeleteAll)
}

// DeleteByDate removes the caller's records created on date (YYYY-MM-DD) in
// the reference time zone.
func (s *Service[T, PT]) DeleteByDate(ctx context.Context, ownerID, date string) (int64, error) {
	if date == "" {
		return 0, apperror.Validation("date parameter is required")
	}
	day, err := dateutil.ParseDate(date, s.loc)
	if err != nil {
		return 0, apperror.Validation("invalid date format, expected YYYY-MM-DD")
	}

	start, end := dateutil.DayBounds(day, s.loc)
	return s.bulkDelete(ctx, ownerID, domain.ActionDeleteByDate,
		repository.Where("created_at >= ? AND created_at < ?", start, end))
}

func (s *Service[T, PT]) DeleteByCategory(ctx context.Context, ownerID, category string) (int64, error) {
	if category == "" {
		return 0, apperror.Validation("%s parameter is required", s.kind.CategoryParam)
	}
	return s.bulkDelete(ctx, ownerID, domain.ActionDeleteByCategory,
		repository.Where(s.kind.CategoryColumn+" = ?", category))
}

func (s *Service[T, PT]) bulkDelete(ctx context.Context, ownerID string, action domain.Action, filters ...repository.Filter) (int64, error) {
	if ownerID == "" {
		return 0, apperror.Authentication("authentication required")
	}

	n, err := s.repo.DeleteWhere(ctx, ownerID, filters...)
	if err != nil {
		return 0, s.wrap(string(action), err)
	}

	s.log.Info("records_bulk_deleted",
		zap.String("kind", s.kind.Name),
		zap.String("action", string(action)),
		zap.String("user_id", ownerID),
		zap.Int64("count", n),
	)
	if n > 0 {
		s.emit(ctx, domain.Change{Action: action, UserID: ownerID, Count: n})
	}
	return n, nil
}

func (s *Service[T, PT]) emit(ctx context.Context, change domain.Change) {
	change.Kind = s.kind.Name
	change.At = s.now()
	metrics.RecordMutations.WithLabelValues(change.Kind, string(change.Action)).Add(float64(change.Count))

	for _, o := range s.observers {
		o.RecordChanged(ctx, change)
	}
}

// wrap passes classified errors through and hides everything else behind
// an internal error.
func (s *Service[T, PT]) wrap(op string, err error) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.Internal(fmt.Errorf("%s %s: %w", op, s.kind.Name, err))
}

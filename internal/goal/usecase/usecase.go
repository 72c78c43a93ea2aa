package usecase

import (
	"context"
	"time"

	"fittrack-backend/internal/goal/domain"
	owneddomain "fittrack-backend/internal/owned/domain"
	ownedrepo "fittrack-backend/internal/owned/repository"
	ownedusecase "fittrack-backend/internal/owned/usecase"
	"fittrack-backend/pkg/apperror"

	"go.uber.org/zap"
)

// GoalUsecase extends the owned-record operations with progress tracking.
type GoalUsecase struct {
	*ownedusecase.Service[domain.Goal, *domain.Goal]
	notifier *AchievementNotifier
}

func NewGoalUsecase(
	repo ownedrepo.Repository[domain.Goal, *domain.Goal],
	notifier *AchievementNotifier,
	loc *time.Location,
	log *zap.Logger,
	observers ...owneddomain.Observer,
) *GoalUsecase {
	u := &GoalUsecase{notifier: notifier}
	u.Service = ownedusecase.NewService(repo, ownedusecase.Options[domain.Goal, *domain.Goal]{
		Kind:      domain.Kind,
		Prepare:   domain.Normalize,
		Validate:  domain.Validate,
		OnUpdated: u.onUpdated,
		Location:  loc,
		Observers: observers,
		Log:       log,
	})
	return u
}

func (u *GoalUsecase) onUpdated(ctx context.Context, before, after *domain.Goal) {
	if !before.Achieved && after.Achieved {
		u.notifier.GoalAchieved(ctx, after)
	}
}

// ToggleAchieved flips the achieved flag without touching progress.
func (u *GoalUsecase) ToggleAchieved(ctx context.Context, ownerID, id string) (*domain.Goal, error) {
	return u.Update(ctx, ownerID, id, func(g *domain.Goal) error {
		g.Achieved = !g.Achieved
		return nil
	})
}

// UpdateProgress sets progress; nil means the value was not supplied.
func (u *GoalUsecase) UpdateProgress(ctx context.Context, ownerID, id string, progress *float64) (*domain.Goal, error) {
	if progress == nil {
		return nil, apperror.Validation("progress is required")
	}
	if err := domain.ValidateProgress(*progress); err != nil {
		return nil, err
	}

	return u.Update(ctx, ownerID, id, func(g *domain.Goal) error {
		g.SetProgress(*progress)
		return nil
	})
}

func (u *GoalUsecase) Achieved(ctx context.Context, ownerID string) ([]domain.Goal, error) {
	return u.List(ctx, ownerID, ownedrepo.Where("achieved = ?", true))
}

func (u *GoalUsecase) InProgress(ctx context.Context, ownerID string) ([]domain.Goal, error) {
	return u.List(ctx, ownerID, ownedrepo.Where("achieved = ?", false))
}

func (u *GoalUsecase) ByCategory(ctx context.Context, ownerID, category string) ([]domain.Goal, error) {
	if category == "" {
		return nil, apperror.Validation("category parameter is required")
	}
	return u.List(ctx, ownerID, ownedrepo.Where("category = ?", category))
}

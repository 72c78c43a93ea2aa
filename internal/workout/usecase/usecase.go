package usecase

import (
	"time"

	owneddomain "fittrack-backend/internal/owned/domain"
	ownedrepo "fittrack-backend/internal/owned/repository"
	ownedusecase "fittrack-backend/internal/owned/usecase"
	"fittrack-backend/internal/workout/domain"

	"go.uber.org/zap"
)

// WorkoutUsecase needs nothing beyond the shared owned-record operations.
type WorkoutUsecase = ownedusecase.Service[domain.Workout, *domain.Workout]

func NewWorkoutUsecase(repo ownedrepo.Repository[domain.Workout, *domain.Workout], loc *time.Location, log *zap.Logger, observers ...owneddomain.Observer) *WorkoutUsecase {
	return ownedusecase.NewService(repo, ownedusecase.Options[domain.Workout, *domain.Workout]{
		Kind:      domain.Kind,
		Prepare:   domain.Normalize,
		Validate:  domain.Validate,
		Location:  loc,
		Observers: observers,
		Log:       log,
	})
}

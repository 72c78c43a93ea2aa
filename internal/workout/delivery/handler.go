package delivery

import (
	owneddelivery "fittrack-backend/internal/owned/delivery"
	"fittrack-backend/internal/workout/domain"
	"fittrack-backend/internal/workout/dto"
	"fittrack-backend/internal/workout/usecase"

	"go.uber.org/zap"
)

type WorkoutHandler = owneddelivery.Handler[domain.Workout, *domain.Workout]

func NewWorkoutHandler(uc *usecase.WorkoutUsecase, log *zap.Logger) *WorkoutHandler {
	return owneddelivery.NewHandler(uc, owneddelivery.Binding[*domain.Workout]{
		NewPayload: func() owneddelivery.Payload[*domain.Workout] { return &dto.WorkoutRequest{} },
		NewPatch:   func() owneddelivery.Patch[*domain.Workout] { return &dto.WorkoutPatch{} },
	}, log)
}

package dto

import "fittrack-backend/internal/workout/domain"

type WorkoutRequest struct {
	Name           string `json:"name" binding:"required,max=100"`
	Description    string `json:"description"`
	Category       string `json:"category" binding:"max=50"`
	Duration       *int   `json:"duration" binding:"required,gte=0"`
	CaloriesBurned *int   `json:"calories_burned" binding:"required,gte=0"`
}

func (r *WorkoutRequest) ToRecord() *domain.Workout {
	w := &domain.Workout{}
	r.ApplyTo(w)
	return w
}

func (r *WorkoutRequest) ApplyTo(w *domain.Workout) {
	w.Name = r.Name
	w.Description = r.Description
	w.Category = r.Category
	w.Duration = *r.Duration
	w.CaloriesBurned = *r.CaloriesBurned
}

type WorkoutPatch struct {
	Name           *string `json:"name" binding:"omitempty,max=100"`
	Description    *string `json:"description"`
	Category       *string `json:"category" binding:"omitempty,max=50"`
	Duration       *int    `json:"duration" binding:"omitempty,gte=0"`
	CaloriesBurned *int    `json:"calories_burned" binding:"omitempty,gte=0"`
}

func (p *WorkoutPatch) ApplyTo(w *domain.Workout) {
	if p.Name != nil {
		w.Name = *p.Name
	}
	if p.Description != nil {
		w.Description = *p.Description
	}
	if p.Category != nil {
		w.Category = *p.Category
	}
	if p.Duration != nil {
		w.Duration = *p.Duration
	}
	if p.CaloriesBurned != nil {
		w.CaloriesBurned = *p.CaloriesBurned
	}
}

package domain

import (
	authdomain "fittrack-backend/internal/auth/domain"
	owneddomain "fittrack-backend/internal/owned/domain"
	"fittrack-backend/pkg/apperror"
)

const DefaultCategory = "general"

// Workout is a logged training session.
type Workout struct {
	owneddomain.Base
	User           *authdomain.User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Name           string           `json:"name" gorm:"size:100;not null"`
	Description    string           `json:"description"`
	Category       string           `json:"category" gorm:"size:50;index;not null"`
	Duration       int              `json:"duration"` // minutes
	CaloriesBurned int              `json:"calories_burned"`
}

var Kind = owneddomain.Kind{
	Name:           "workout",
	CategoryColumn: "category",
	CategoryParam:  "category",
}

func Validate(w *Workout) error {
	if w.Name == "" {
		return apperror.Validation("name is required")
	}
	if w.Duration < 0 {
		return apperror.Validation("duration must not be negative")
	}
	if w.CaloriesBurned < 0 {
		return apperror.Validation("calories_burned must not be negative")
	}
	return nil
}

// Normalize fills in the default category.
func Normalize(w *Workout) {
	if w.Category == "" {
		w.Category = DefaultCategory
	}
}

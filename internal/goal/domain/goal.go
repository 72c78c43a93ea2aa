package domain

import (
	"time"

	authdomain "fittrack-backend/internal/auth/domain"
	owneddomain "fittrack-backend/internal/owned/domain"
	"fittrack-backend/pkg/apperror"
)

const (
	CategoryWorkout   = "workout"
	CategoryNutrition = "nutrition"
	CategoryWeight    = "weight"
	CategoryOther     = "other"

	MaxProgress = 100
)

var Categories = []string{CategoryWorkout, CategoryNutrition, CategoryWeight, CategoryOther}

// Goal is a user's target with a progress percentage.
type Goal struct {
	owneddomain.Base
	User         *authdomain.User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Name         string           `json:"name" gorm:"size:255;not null"`
	Description  string           `json:"description"`
	GoalType     string           `json:"goal_type" gorm:"size:50"`
	Category     string           `json:"category" gorm:"size:20;index;not null"`
	TargetWeight *float64         `json:"target_weight"`
	TargetDate   *time.Time       `json:"target_date"`
	Progress     float64          `json:"progress"`
	Achieved     bool             `json:"achieved" gorm:"index"`
}

var Kind = owneddomain.Kind{
	Name:           "goal",
	CategoryColumn: "category",
	CategoryParam:  "category",
}

func IsCategory(s string) bool {
	for _, c := range Categories {
		if s == c {
			return true
		}
	}
	return false
}

// ValidateProgress checks the [0, 100] range.
func ValidateProgress(p float64) error {
	if p < 0 || p > MaxProgress {
		return apperror.Validation("progress must be between 0 and 100")
	}
	return nil
}

func Validate(g *Goal) error {
	if g.Name == "" {
		return apperror.Validation("name is required")
	}
	if !IsCategory(g.Category) {
		return apperror.Validation("category must be one of workout, nutrition, weight, other")
	}
	return ValidateProgress(g.Progress)
}

// SetProgress records p; reaching 100 marks the goal achieved. Lowering
// progress never clears Achieved.
func (g *Goal) SetProgress(p float64) {
	g.Progress = p
	if p >= MaxProgress {
		g.Achieved = true
	}
}

// Normalize applies the default category.
func Normalize(g *Goal) {
	if g.Category == "" {
		g.Category = CategoryOther
	}
}

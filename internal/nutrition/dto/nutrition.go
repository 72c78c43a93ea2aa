package dto

import (
	"sync"

	"fittrack-backend/internal/nutrition/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the meal_type tag to gin's validator. Call before
// serving requests.
func RegisterValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("meal_type", func(fl validator.FieldLevel) bool {
				return domain.IsMealType(fl.Field().String())
			})
		}
	})
}

type NutritionRequest struct {
	MealType      string   `json:"meal_type" binding:"required,meal_type"`
	Calories      *int     `json:"calories" binding:"required,gte=0"`
	Protein       *float64 `json:"protein" binding:"required,gte=0"`
	Carbohydrates *float64 `json:"carbohydrates" binding:"required,gte=0"`
	Fats          *float64 `json:"fats" binding:"required,gte=0"`
}

func (r *NutritionRequest) ToRecord() *domain.Nutrition {
	n := &domain.Nutrition{}
	r.ApplyTo(n)
	return n
}

func (r *NutritionRequest) ApplyTo(n *domain.Nutrition) {
	n.MealType = r.MealType
	n.Calories = *r.Calories
	n.Protein = *r.Protein
	n.Carbohydrates = *r.Carbohydrates
	n.Fats = *r.Fats
}

type NutritionPatch struct {
	MealType      *string  `json:"meal_type" binding:"omitempty,meal_type"`
	Calories      *int     `json:"calories" binding:"omitempty,gte=0"`
	Protein       *float64 `json:"protein" binding:"omitempty,gte=0"`
	Carbohydrates *float64 `json:"carbohydrates" binding:"omitempty,gte=0"`
	Fats          *float64 `json:"fats" binding:"omitempty,gte=0"`
}

func (p *NutritionPatch) ApplyTo(n *domain.Nutrition) {
	if p.MealType != nil {
		n.MealType = *p.MealType
	}
	if p.Calories != nil {
		n.Calories = *p.Calories
	}
	if p.Protein != nil {
		n.Protein = *p.Protein
	}
	if p.Carbohydrates != nil {
		n.Carbohydrates = *p.Carbohydrates
	}
	if p.Fats != nil {
		n.Fats = *p.Fats
	}
}

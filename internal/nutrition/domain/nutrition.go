package domain

import (
	authdomain "fittrack-backend/internal/auth/domain"
	owneddomain "fittrack-backend/internal/owned/domain"
	"fittrack-backend/pkg/apperror"
)

const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

var MealTypes = []string{MealBreakfast, MealLunch, MealDinner, MealSnack}

func IsMealType(s string) bool {
	for _, m := range MealTypes {
		if s == m {
			return true
		}
	}
	return false
}

// Nutrition is one logged meal.
type Nutrition struct {
	owneddomain.Base
	User          *authdomain.User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	MealType      string           `json:"meal_type" gorm:"size:50;index;not null"`
	Calories      int              `json:"calories"`
	Protein       float64          `json:"protein"`
	Carbohydrates float64          `json:"carbohydrates"`
	Fats          float64          `json:"fats"`
}

func (Nutrition) TableName() string {
	return "nutrition_records"
}

var Kind = owneddomain.Kind{
	Name:           "nutrition",
	CategoryColumn: "meal_type",
	CategoryParam:  "meal_type",
}

func Validate(n *Nutrition) error {
	if !IsMealType(n.MealType) {
		return apperror.Validation("meal_type must be one of breakfast, lunch, dinner, snack")
	}
	if n.Calories < 0 || n.Protein < 0 || n.Carbohydrates < 0 || n.Fats < 0 {
		return apperror.Validation("nutrient values must not be negative")
	}
	return nil
}

// DailyStats is the nutrient total of one calendar day. Zero when nothing
// was logged.
type DailyStats struct {
	Date               string  `json:"date"`
	TotalCalories      int64   `json:"total_calories"`
	TotalProtein       float64 `json:"total_protein"`
	TotalCarbohydrates float64 `json:"total_carbohydrates"`
	TotalFats          float64 `json:"total_fats"`
}

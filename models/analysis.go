package models

import (
	"gorm.io/gorm"
)

// One saved photo analysis. The summary columns are denormalized from the
// estimate so history listings never need to parse RawEstimate.
type Analysis struct {
	gorm.Model
	UserID   uint   `gorm:"index"`
	PhotoURL string
	Provider string
	AIModel  string `gorm:"column:model"`

	MealName   string
	Calories   float64
	Protein    float64
	Carbs      float64
	Fat        float64
	Confidence float64

	// Full NutritionEstimate as returned to the client, JSON-encoded.
	RawEstimate string `gorm:"type:text"`

	// Stage-1 vision output, kept for debugging bad estimates.
	Description string `gorm:"type:text"`

	Items []AnalysisItem
}

// Per-item snapshot of the estimate at analysis time.
type AnalysisItem struct {
	gorm.Model
	AnalysisID uint `gorm:"index"`

	Name     string
	Portion  string
	Grams    float64
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64

	// Edamam cross-check result, empty when no match was found.
	DBFoodID          string
	DBLabel           string
	DBCaloriesPer100g float64
}

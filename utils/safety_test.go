package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivmuk/caloriecounter/models"
)

func warningCodes(ws []Warning) []string {
	codes := make([]string, 0, len(ws))
	for _, w := range ws {
		codes = append(codes, w.Code)
	}
	return codes
}

func TestAssessEstimateEmpty(t *testing.T) {
	ws := AssessEstimate(&models.NutritionEstimate{}, AssessmentContext{})
	assert.Empty(t, ws)
}

func TestAssessEstimateSugarShare(t *testing.T) {
	est := &models.NutritionEstimate{
		Totals: models.MacroTotals{Calories: 400, Sugar: 20}, // 80 kcal of sugar, 20%
	}
	ws := AssessEstimate(est, AssessmentContext{})
	assert.Contains(t, warningCodes(ws), "sugars_high_share")
}

func TestAssessEstimateSodium(t *testing.T) {
	t.Run("very high share for an adult", func(t *testing.T) {
		est := &models.NutritionEstimate{
			Totals: models.MacroTotals{Calories: 800},
			Micros: models.MicroTotals{Sodium: 1400}, // >40% of 2300 mg
		}
		ws := AssessEstimate(est, AssessmentContext{})
		codes := warningCodes(ws)
		assert.Contains(t, codes, "sodium_very_high")
		assert.NotContains(t, codes, "sodium_high")
	})

	t.Run("age-adjusted limit for a young child", func(t *testing.T) {
		est := &models.NutritionEstimate{
			Totals: models.MacroTotals{Calories: 800},
			Micros: models.MicroTotals{Sodium: 500}, // 41% of the 1200 mg toddler limit
		}
		ws := AssessEstimate(est, AssessmentContext{AgeYears: 2})
		assert.Contains(t, warningCodes(ws), "sodium_very_high")
	})

	t.Run("density flag needs calories", func(t *testing.T) {
		est := &models.NutritionEstimate{
			Totals: models.MacroTotals{Calories: 200},
			Micros: models.MicroTotals{Sodium: 900}, // 450 mg per 100 kcal
		}
		ws := AssessEstimate(est, AssessmentContext{})
		assert.Contains(t, warningCodes(ws), "sodium_dense")
	})
}

func TestAssessEstimateSodiumPotassiumRatio(t *testing.T) {
	est := &models.NutritionEstimate{
		Micros: models.MicroTotals{Sodium: 900, Potassium: 300},
	}
	ws := AssessEstimate(est, AssessmentContext{})
	assert.Contains(t, warningCodes(ws), "sodium_potassium_ratio_high")
}

func TestAssessEstimateCholesterol(t *testing.T) {
	est := &models.NutritionEstimate{
		Micros: models.MicroTotals{Cholesterol: 350},
	}
	ws := AssessEstimate(est, AssessmentContext{})
	assert.Contains(t, warningCodes(ws), "cholesterol_high")
}

func TestAssessEstimateAMDR(t *testing.T) {
	// All fat: carbs and protein under range, fat over range.
	est := &models.NutritionEstimate{
		Totals: models.MacroTotals{Fat: 50},
	}
	ws := AssessEstimate(est, AssessmentContext{})
	codes := warningCodes(ws)
	assert.Contains(t, codes, "amdr_carbs_out_of_range")
	assert.Contains(t, codes, "amdr_protein_out_of_range")
	assert.Contains(t, codes, "amdr_fat_out_of_range")

	// A balanced plate stays quiet.
	balanced := &models.NutritionEstimate{
		Totals: models.MacroTotals{Calories: 500, Carbs: 65, Protein: 25, Fat: 15},
	}
	for _, code := range warningCodes(AssessEstimate(balanced, AssessmentContext{})) {
		assert.NotContains(t, code, "amdr_")
	}
}

func TestAssessEstimateFiberDensity(t *testing.T) {
	low := &models.NutritionEstimate{
		Totals: models.MacroTotals{Calories: 600, Carbs: 80, Fiber: 2},
	}
	assert.Contains(t, warningCodes(AssessEstimate(low, AssessmentContext{})), "fiber_low_nudge")

	high := &models.NutritionEstimate{
		Totals: models.MacroTotals{Calories: 300, Carbs: 45, Fiber: 10},
	}
	assert.Contains(t, warningCodes(AssessEstimate(high, AssessmentContext{})), "fiber_high_positive")
}

func TestAssessEstimateEnergyDensity(t *testing.T) {
	est := &models.NutritionEstimate{
		Totals: models.MacroTotals{Calories: 600},
		Items: []models.ItemEstimate{
			{Name: "fries", Grams: 150},
			{Name: "burger", Grams: 50},
		},
	}
	ws := AssessEstimate(est, AssessmentContext{})
	assert.Contains(t, warningCodes(ws), "energy_density_very_high")
}

func TestAssessEstimateSatFatHeuristicFiresOnce(t *testing.T) {
	est := &models.NutritionEstimate{
		Items: []models.ItemEstimate{
			{Name: "Bacon strips"},
			{Name: "Cheddar cheese"},
		},
	}
	ws := AssessEstimate(est, AssessmentContext{})
	count := 0
	for _, w := range ws {
		if w.Code == "satfat_source_heuristic" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestWarningMessages(t *testing.T) {
	ws := []Warning{{Message: "a"}, {Message: "b"}}
	require.Equal(t, []string{"a", "b"}, WarningMessages(ws))
}

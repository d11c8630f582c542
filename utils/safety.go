package utils

import (
	"fmt"
	"math"
	"strings"

	"github.com/vivmuk/caloriecounter/models"
)

// AssessmentContext tunes the daily-limit math. Zero values fall back to a
// 2000 kcal adult.
type AssessmentContext struct {
	AgeYears      int
	CalorieTarget float64
}

// WarningSeverity categorizes how serious the flag is.
type WarningSeverity string

const (
	Info    WarningSeverity = "info"
	Caution WarningSeverity = "caution"
	High    WarningSeverity = "high"
)

// Warning is a structured finding you can show in your API / UI.
type Warning struct {
	Code           string          `json:"code"`
	Severity       WarningSeverity `json:"severity"`
	Message        string          `json:"message"`
	Metric         string          `json:"metric,omitempty"`
	Value          float64         `json:"value,omitempty"`
	Limit          float64         `json:"limit,omitempty"`
	PercentOfLimit float64         `json:"percent_of_limit,omitempty"`
	Reference      string          `json:"reference,omitempty"`
}

// AssessEstimate runs the DGA 2020–2025 rule set over a model's nutrition
// estimate. Rules only fire on nutrients the estimate actually carries.
func AssessEstimate(est *models.NutritionEstimate, ctx AssessmentContext) []Warning {
	warnings := []Warning{}

	kcal := est.Totals.Calories
	if kcal <= 0 {
		kcal = energyFromMacros(est.Totals.Carbs, est.Totals.Protein, est.Totals.Fat)
	}

	kcalTarget := ctx.CalorieTarget
	if kcalTarget <= 0 {
		kcalTarget = 2000
	}

	// 1) Sugars — <10% kcal/day. The models report total sugars only, so the
	// flag stays at Caution.
	if kcal > 0 && est.Totals.Sugar > 0 {
		pct := (est.Totals.Sugar * 4.0) / kcal
		if pct >= 0.10 {
			warnings = append(warnings, Warning{
				Code:      "sugars_high_share",
				Severity:  Caution,
				Message:   fmt.Sprintf("High sugars for this meal (%.0f%% of its calories) — may include added sugars.", pct*100),
				Metric:    "sugar_%_of_meal_kcal",
				Value:     round2(pct * 100),
				Limit:     10,
				Reference: dgaRef("Added sugars ≤10% kcal"),
			})
		}
	}

	// 2) Sodium — share of the age-aware CDRR limit, plus density.
	if est.Micros.Sodium > 0 {
		sodLimit := sodiumLimitByAge(ctx.AgeYears)
		share := est.Micros.Sodium / sodLimit
		switch {
		case share >= 0.40:
			warnings = append(warnings, Warning{
				Code:           "sodium_very_high",
				Severity:       High,
				Message:        fmt.Sprintf("Very high sodium for one meal (≈%.0f%% of the daily limit).", share*100),
				Metric:         "sodium_%_of_daily_limit",
				Value:          round2(share * 100),
				Limit:          100,
				PercentOfLimit: round2(share * 100),
				Reference:      dgaRef("Limit sodium (CDRR)"),
			})
		case share >= 0.20:
			warnings = append(warnings, Warning{
				Code:           "sodium_high",
				Severity:       Caution,
				Message:        fmt.Sprintf("High sodium for one meal (≈%.0f%% of the daily limit).", share*100),
				Metric:         "sodium_%_of_daily_limit",
				Value:          round2(share * 100),
				Limit:          100,
				PercentOfLimit: round2(share * 100),
				Reference:      dgaRef("Limit sodium (CDRR)"),
			})
		}
		if kcal > 0 {
			naPer100kcal := (est.Micros.Sodium / kcal) * 100.0
			if naPer100kcal >= 400 {
				warnings = append(warnings, Warning{
					Code:      "sodium_dense",
					Severity:  Info,
					Message:   "High sodium density relative to calories — consider lower-sodium alternatives.",
					Metric:    "sodium_mg_per_100kcal",
					Value:     round2(naPer100kcal),
					Reference: dgaRef("Reduce sodium; choose lower-sodium options"),
				})
			}
		}
	}

	// Sodium–potassium balance (if both present)
	if est.Micros.Sodium > 0 && est.Micros.Potassium > 0 {
		ratio := est.Micros.Sodium / est.Micros.Potassium
		if ratio > 1.5 {
			warnings = append(warnings, Warning{
				Code:      "sodium_potassium_ratio_high",
				Severity:  Info,
				Message:   "Higher sodium relative to potassium — add potassium-rich foods (fruits, vegetables, legumes).",
				Metric:    "na_to_k_ratio",
				Value:     round2(ratio),
				Reference: dgaRef("Shift to potassium-rich foods while reducing sodium"),
			})
		}
	}

	// 3) Cholesterol — no hard DGA limit, but flag unusually heavy meals.
	if est.Micros.Cholesterol >= 300 {
		warnings = append(warnings, Warning{
			Code:      "cholesterol_high",
			Severity:  Caution,
			Message:   fmt.Sprintf("High dietary cholesterol for one meal (%.0f mg).", est.Micros.Cholesterol),
			Metric:    "cholesterol_mg",
			Value:     round2(est.Micros.Cholesterol),
			Reference: dgaRef("Keep dietary cholesterol intake low"),
		})
	}

	// 4) AMDR (macronutrient distribution) for the meal's macro calories.
	carbG, protG, fatG := est.Totals.Carbs, est.Totals.Protein, est.Totals.Fat
	if totalFromMacros := 4*carbG + 4*protG + 9*fatG; totalFromMacros > 0 {
		cPct := (4 * carbG) / totalFromMacros
		pPct := (4 * protG) / totalFromMacros
		fPct := (9 * fatG) / totalFromMacros

		if cPct < 0.45 || cPct > 0.65 {
			warnings = append(warnings, amdrWarning("carbs", cPct, "45–65"))
		}
		if pPct < 0.10 || pPct > 0.35 {
			warnings = append(warnings, amdrWarning("protein", pPct, "10–35"))
		}
		if fPct < 0.20 || fPct > 0.35 {
			warnings = append(warnings, amdrWarning("fat", fPct, "20–35"))
		}
	}

	// 5) Fiber density nudges for carbohydrate-heavy meals.
	if kcal > 0 && carbG >= 15 && est.Totals.Fiber > 0 {
		fiberPer100kcal := (est.Totals.Fiber / kcal) * 100.0
		if fiberPer100kcal < 1.0 {
			warnings = append(warnings, Warning{
				Code:      "fiber_low_nudge",
				Severity:  Info,
				Message:   "Low dietary fiber for a carbohydrate-heavy meal — consider whole grains, fruits, or vegetables.",
				Metric:    "fiber_g_per_100kcal",
				Value:     round2(fiberPer100kcal),
				Reference: dgaRef("Fiber is underconsumed; emphasize fiber-rich foods"),
			})
		} else if fiberPer100kcal >= 2.5 {
			warnings = append(warnings, Warning{
				Code:      "fiber_high_positive",
				Severity:  Info,
				Message:   "Good fiber density — supports a healthy dietary pattern.",
				Metric:    "fiber_g_per_100kcal",
				Value:     round2(fiberPer100kcal),
				Reference: dgaRef("Emphasize fiber-rich foods"),
			})
		}
	}

	// 6) Energy density, when the items carry gram estimates.
	if grams := totalGrams(est.Items); grams > 0 && kcal > 0 {
		kcalPer100g := (kcal / grams) * 100.0
		switch {
		case kcalPer100g >= 275:
			warnings = append(warnings, Warning{
				Code:      "energy_density_very_high",
				Severity:  Info,
				Message:   "Very energy-dense meal — mindful portions can help fit it into a healthy pattern.",
				Metric:    "kcal_per_100g",
				Value:     round2(kcalPer100g),
				Reference: dgaRef("Moderate high-energy-density foods"),
			})
		case kcalPer100g >= 150:
			warnings = append(warnings, Warning{
				Code:      "energy_density_high",
				Severity:  Info,
				Message:   "High energy density — balance with lower-calorie, nutrient-dense sides (vegetables/fruits).",
				Metric:    "kcal_per_100g",
				Value:     round2(kcalPer100g),
				Reference: dgaRef("Emphasize nutrient-dense foods"),
			})
		}
	}

	// 7) Item-name heuristics for saturated-fat-heavy sources the estimate
	// cannot break out on its own.
	for _, item := range est.Items {
		if looksHighSatSource(strings.ToLower(item.Name)) {
			warnings = append(warnings, Warning{
				Code:      "satfat_source_heuristic",
				Severity:  Info,
				Message:   fmt.Sprintf("%s is likely high in saturated fat — consider leaner cuts or plant oils.", item.Name),
				Reference: dgaRef("Shift from saturated to unsaturated fats"),
			})
			break // one nudge per meal is enough
		}
	}

	return warnings
}

// WarningMessages flattens findings into the caveat strings the estimate
// carries.
func WarningMessages(ws []Warning) []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Message)
	}
	return out
}

// -----------------------------
// Helpers
// -----------------------------

func amdrWarning(macro string, pct float64, window string) Warning {
	label := strings.ToUpper(macro[:1]) + macro[1:]
	return Warning{
		Code:      "amdr_" + macro + "_out_of_range",
		Severity:  Info,
		Message:   fmt.Sprintf("%s ~%.0f%% of macro calories (AMDR %s%%).", label, pct*100, window),
		Metric:    macro + "_%_of_macro_kcal",
		Value:     round2(pct * 100),
		Reference: dgaRef("AMDR: " + macro + " " + window + "% kcal"),
	}
}

func energyFromMacros(carbG, protG, fatG float64) float64 {
	if carbG <= 0 && protG <= 0 && fatG <= 0 {
		return 0
	}
	return 4.0*carbG + 4.0*protG + 9.0*fatG
}

func totalGrams(items []models.ItemEstimate) float64 {
	var g float64
	for _, it := range items {
		g += it.Grams
	}
	return g
}

func sodiumLimitByAge(age int) float64 {
	switch {
	case age > 0 && age <= 3:
		return 1200 // mg/day
	case age >= 4 && age <= 8:
		return 1500
	case age >= 9 && age <= 13:
		return 1800
	default:
		return 2300
	}
}

func dgaRef(where string) string {
	return "Dietary Guidelines for Americans, 2020–2025 — " + where
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// High-sat-fat source heuristics when the breakdown is name-only
func looksHighSatSource(name string) bool {
	return containsAny(name,
		"butter", "ghee", "cream", "cheese", "bacon", "sausage", "shortening",
		"palm oil", "palm kernel", "coconut oil", "lard")
}

package models

// NutritionEstimate is the JSON contract the text model is asked to fill in
// stage two. Field names and units are part of the prompt/schema, so renaming
// anything here changes what the models are asked to produce.
type NutritionEstimate struct {
	MealName   string         `json:"meal_name" jsonschema:"description=Short human-readable name for the overall meal"`
	Items      []ItemEstimate `json:"items" jsonschema:"description=Every distinct food or drink visible in the photo"`
	Totals     MacroTotals    `json:"totals"`
	Micros     MicroTotals    `json:"micros"`
	Confidence float64        `json:"confidence" jsonschema:"minimum=0,maximum=1,description=Overall confidence in the estimate between 0 and 1"`
	Caveats    []string       `json:"caveats" jsonschema:"description=Assumptions or uncertainties affecting the estimate"`
}

type ItemEstimate struct {
	Name     string  `json:"name"`
	Portion  string  `json:"portion" jsonschema:"description=Portion as eaten e.g. '1 cup cooked'"`
	Grams    float64 `json:"grams" jsonschema:"description=Estimated weight in grams"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein_g"`
	Carbs    float64 `json:"carbs_g"`
	Fat      float64 `json:"fat_g"`

	// DBMatch is attached server-side after the food-database cross-check.
	// The models are never asked for it.
	DBMatch *FoodMatch `json:"db_match,omitempty" jsonschema:"-"`
}

type MacroTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein_g"`
	Carbs    float64 `json:"carbs_g"`
	Fat      float64 `json:"fat_g"`
	Fiber    float64 `json:"fiber_g"`
	Sugar    float64 `json:"sugar_g"`
}

// MicroTotals carries the handful of micronutrients the prompt asks for,
// all in milligrams.
type MicroTotals struct {
	Sodium      float64 `json:"sodium_mg"`
	Potassium   float64 `json:"potassium_mg"`
	Cholesterol float64 `json:"cholesterol_mg"`
	Calcium     float64 `json:"calcium_mg"`
	Iron        float64 `json:"iron_mg"`
	VitaminC    float64 `json:"vitamin_c_mg"`
}

// FoodMatch is the best-effort Edamam hit for a single item.
type FoodMatch struct {
	FoodID          string  `json:"food_id"`
	Label           string  `json:"label"`
	Category        string  `json:"category,omitempty"`
	CaloriesPer100g float64 `json:"calories_per_100g,omitempty"`
}

package services

import (
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/vivmuk/caloriecounter/models"
)

// MealDescriptionPrompt is the stage-one vision prompt, shared by every
// provider so comparisons differ only in the model.
const MealDescriptionPrompt = `You are a food analyst. Describe every food and drink visible in this photo.
For each item state what it is, how it appears to be prepared, and your best
estimate of the portion size (use common measures and grams). Mention
anything that affects calories: visible oils or butter, sauces, breading,
sugary drinks. If the photo contains no food or drink, reply exactly:
NO FOOD DETECTED. Do not estimate calories yet.`

const nutritionSystemPrompt = `You are a registered dietitian. You convert meal descriptions into a
nutrition estimate as a single JSON object and output nothing else:
no markdown, no code fences, no commentary before or after the JSON.`

// BuildNutritionPrompt assembles the stage-two prompt from the vision
// model's description and optional user notes.
func BuildNutritionPrompt(description, notes string) string {
	prompt := fmt.Sprintf(`Estimate the nutrition of this meal:

%s

Respond with one JSON object with exactly these fields:
- "meal_name": short name for the meal
- "items": array of objects {"name", "portion", "grams", "calories", "protein_g", "carbs_g", "fat_g"}
- "totals": {"calories", "protein_g", "carbs_g", "fat_g", "fiber_g", "sugar_g"}
- "micros": {"sodium_mg", "potassium_mg", "cholesterol_mg", "calcium_mg", "iron_mg", "vitamin_c_mg"}
- "confidence": number between 0 and 1
- "caveats": array of strings listing assumptions or uncertainty

All numbers are plain numbers (no units, no strings). Totals must equal the
sum over items. Be realistic rather than optimistic about portion sizes.`, description)

	if notes != "" {
		prompt += fmt.Sprintf("\n\nAdditional context from the user: %s", notes)
	}
	return prompt
}

// NutritionSchema reflects the response struct into a JSON schema for
// providers that support schema-constrained output.
func NutritionSchema() *jsonschema.Schema {
	schemaMaker := jsonschema.Reflector{
		Anonymous:      true,
		ExpandedStruct: true,
		DoNotReference: true,
	}
	return schemaMaker.Reflect(&models.NutritionEstimate{})
}

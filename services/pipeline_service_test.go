package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider is a scriptable Provider for pipeline and comparison tests.
type fakeProvider struct {
	name         string
	description  string
	describeErr  error
	rawEstimate  string
	estimateErr  error
	describeRuns int
	estimateRuns int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Models() []ModelInfo {
	return []ModelInfo{
		{Provider: f.name, ID: f.name + "-vision", Role: "vision"},
		{Provider: f.name, ID: f.name + "-text", Role: "text"},
	}
}

func (f *fakeProvider) DescribeMeal(_ context.Context, _ string, _ []byte) (string, error) {
	f.describeRuns++
	if f.describeErr != nil {
		return "", f.describeErr
	}
	return f.description, nil
}

func (f *fakeProvider) EstimateNutrition(_ context.Context, _, _ string) (string, error) {
	f.estimateRuns++
	if f.estimateErr != nil {
		return "", f.estimateErr
	}
	return f.rawEstimate, nil
}

const goodEstimateJSON = `{
	"meal_name": "Chicken and rice",
	"items": [
		{"name": "Grilled chicken", "portion": "1 breast", "grams": 120, "calories": 200, "protein_g": 35, "carbs_g": 0, "fat_g": 6},
		{"name": "White rice", "portion": "1 cup cooked", "grams": 160, "calories": 210, "protein_g": 4, "carbs_g": 45, "fat_g": 0.5}
	],
	"totals": {"calories": 410, "protein_g": 39, "carbs_g": 45, "fat_g": 6.5, "fiber_g": 1, "sugar_g": 0},
	"micros": {"sodium_mg": 350, "potassium_mg": 500, "cholesterol_mg": 95, "calcium_mg": 30, "iron_mg": 1.5, "vitamin_c_mg": 0},
	"confidence": 0.8,
	"caveats": ["Portion sizes estimated from the photo."]
}`

func registryWith(providers ...Provider) *Registry {
	r := NewRegistry()
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

func TestAnalyzeSingleProvider(t *testing.T) {
	venice := &fakeProvider{name: "venice", description: "grilled chicken with rice", rawEstimate: goodEstimateJSON}
	pipeline := NewPipelineService(registryWith(venice), []string{"venice"})

	result, err := pipeline.Analyze(context.Background(), AnalyzeInput{ContentType: "image/jpeg", Image: []byte{1}})
	require.NoError(t, err)

	assert.Equal(t, "venice", result.Provider)
	assert.Equal(t, "venice-vision", result.VisionModel)
	assert.Equal(t, "venice-text", result.TextModel)
	assert.Equal(t, "grilled chicken with rice", result.Description)
	assert.Equal(t, "Chicken and rice", result.Estimate.MealName)
	assert.InDelta(t, 410, result.Estimate.Totals.Calories, 0.01)
	assert.Len(t, result.Estimate.Items, 2)
}

func TestAnalyzeFallsBackOnFailure(t *testing.T) {
	broken := &fakeProvider{name: "venice", describeErr: errors.New("upstream 500")}
	gemini := &fakeProvider{name: "gemini", description: "a bowl of soup", rawEstimate: goodEstimateJSON}
	pipeline := NewPipelineService(registryWith(broken, gemini), []string{"venice", "gemini"})

	result, err := pipeline.Analyze(context.Background(), AnalyzeInput{Image: []byte{1}})
	require.NoError(t, err)

	assert.Equal(t, "gemini", result.Provider)
	assert.Equal(t, 1, broken.describeRuns)
	assert.Equal(t, 1, gemini.describeRuns)
}

func TestAnalyzeExplicitProviderSkipsChain(t *testing.T) {
	venice := &fakeProvider{name: "venice", description: "toast", rawEstimate: goodEstimateJSON}
	grok := &fakeProvider{name: "grok", description: "toast", rawEstimate: goodEstimateJSON}
	pipeline := NewPipelineService(registryWith(venice, grok), []string{"venice", "grok"})

	result, err := pipeline.Analyze(context.Background(), AnalyzeInput{Image: []byte{1}, Provider: "grok"})
	require.NoError(t, err)

	assert.Equal(t, "grok", result.Provider)
	assert.Zero(t, venice.describeRuns)
}

func TestAnalyzeUnknownProvider(t *testing.T) {
	pipeline := NewPipelineService(registryWith(), []string{})

	_, err := pipeline.Analyze(context.Background(), AnalyzeInput{Image: []byte{1}, Provider: "nope"})
	assert.ErrorIs(t, err, ErrProviderNotConfigured)
}

func TestAnalyzeNoFoodStopsChain(t *testing.T) {
	venice := &fakeProvider{name: "venice", description: "NO FOOD DETECTED"}
	gemini := &fakeProvider{name: "gemini", description: "soup", rawEstimate: goodEstimateJSON}
	pipeline := NewPipelineService(registryWith(venice, gemini), []string{"venice", "gemini"})

	_, err := pipeline.Analyze(context.Background(), AnalyzeInput{Image: []byte{1}})
	assert.ErrorIs(t, err, ErrNoFoodDetected)
	assert.Zero(t, gemini.describeRuns, "a no-food verdict must not be retried on another provider")
}

func TestAnalyzeAllProvidersFail(t *testing.T) {
	a := &fakeProvider{name: "venice", describeErr: errors.New("timeout")}
	b := &fakeProvider{name: "gemini", estimateErr: errors.New("rate limited"), description: "soup"}
	pipeline := NewPipelineService(registryWith(a, b), []string{"venice", "gemini"})

	_, err := pipeline.Analyze(context.Background(), AnalyzeInput{Image: []byte{1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
	assert.Contains(t, err.Error(), "rate limited")
}

func TestAnalyzeMalformedEstimate(t *testing.T) {
	venice := &fakeProvider{name: "venice", description: "soup", rawEstimate: "sorry, I cannot help with that"}
	pipeline := NewPipelineService(registryWith(venice), []string{"venice"})

	_, err := pipeline.Analyze(context.Background(), AnalyzeInput{Image: []byte{1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all providers failed")
}

func TestNormalizeEstimateClampsConfidence(t *testing.T) {
	raw := `{
		"meal_name": "Espresso",
		"items": [{"name": "Espresso", "grams": 30, "calories": 3, "protein_g": 0.1, "carbs_g": 0.5, "fat_g": 0}],
		"totals": {"calories": 3, "protein_g": 0.1, "carbs_g": 0.5, "fat_g": 0},
		"micros": {},
		"confidence": 87
	}`
	venice := &fakeProvider{name: "venice", description: "an espresso", rawEstimate: raw}
	pipeline := NewPipelineService(registryWith(venice), []string{"venice"})

	result, err := pipeline.Analyze(context.Background(), AnalyzeInput{Image: []byte{1}})
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.Estimate.Confidence)
}

func TestNormalizeEstimateRecomputesTotals(t *testing.T) {
	// Items sum to 410 kcal but the model claims 900: more than 15% off, so
	// the totals come from the items and a caveat is added.
	raw := `{
		"meal_name": "Chicken and rice",
		"items": [
			{"name": "Grilled chicken", "grams": 120, "calories": 200, "protein_g": 35, "carbs_g": 0, "fat_g": 6},
			{"name": "White rice", "grams": 160, "calories": 210, "protein_g": 4, "carbs_g": 45, "fat_g": 0.5}
		],
		"totals": {"calories": 900, "protein_g": 80, "carbs_g": 90, "fat_g": 30},
		"micros": {},
		"confidence": 0.7
	}`
	venice := &fakeProvider{name: "venice", description: "chicken and rice", rawEstimate: raw}
	pipeline := NewPipelineService(registryWith(venice), []string{"venice"})

	result, err := pipeline.Analyze(context.Background(), AnalyzeInput{Image: []byte{1}})
	require.NoError(t, err)

	assert.InDelta(t, 410, result.Estimate.Totals.Calories, 0.01)
	assert.InDelta(t, 39, result.Estimate.Totals.Protein, 0.01)
	assert.Contains(t, result.Estimate.Caveats, "Totals were recomputed from the per-item estimates.")
}

func TestNormalizeEstimateKeepsCloseTotals(t *testing.T) {
	// 440 kcal claimed against a 410 kcal item sum is within 15%.
	raw := `{
		"meal_name": "Chicken and rice",
		"items": [
			{"name": "Grilled chicken", "grams": 120, "calories": 200, "protein_g": 35, "carbs_g": 0, "fat_g": 6},
			{"name": "White rice", "grams": 160, "calories": 210, "protein_g": 4, "carbs_g": 45, "fat_g": 0.5}
		],
		"totals": {"calories": 440, "protein_g": 40, "carbs_g": 46, "fat_g": 7},
		"micros": {},
		"confidence": 0.7
	}`
	venice := &fakeProvider{name: "venice", description: "chicken and rice", rawEstimate: raw}
	pipeline := NewPipelineService(registryWith(venice), []string{"venice"})

	result, err := pipeline.Analyze(context.Background(), AnalyzeInput{Image: []byte{1}})
	require.NoError(t, err)

	assert.InDelta(t, 440, result.Estimate.Totals.Calories, 0.01)
	assert.NotContains(t, result.Estimate.Caveats, "Totals were recomputed from the per-item estimates.")
}

func TestNormalizeEstimateClampsNegativeItems(t *testing.T) {
	raw := `{
		"meal_name": "Mystery plate",
		"items": [{"name": "Something", "grams": -50, "calories": -120, "protein_g": -3, "carbs_g": 10, "fat_g": 2}],
		"totals": {"calories": 58, "protein_g": 0, "carbs_g": 10, "fat_g": 2},
		"micros": {},
		"confidence": 0.4
	}`
	venice := &fakeProvider{name: "venice", description: "a plate", rawEstimate: raw}
	pipeline := NewPipelineService(registryWith(venice), []string{"venice"})

	result, err := pipeline.Analyze(context.Background(), AnalyzeInput{Image: []byte{1}})
	require.NoError(t, err)

	item := result.Estimate.Items[0]
	assert.Zero(t, item.Grams)
	assert.Zero(t, item.Calories)
	assert.Zero(t, item.Protein)
}

func TestRegistryOrderAndModels(t *testing.T) {
	venice := &fakeProvider{name: "venice"}
	gemini := &fakeProvider{name: "gemini"}
	registry := registryWith(venice, gemini)

	assert.Equal(t, []string{"venice", "gemini"}, registry.Names())

	_, err := registry.Get("minimax")
	assert.ErrorIs(t, err, ErrProviderNotConfigured)

	models := registry.AllModels()
	require.Len(t, models, 4)
	// Sorted by provider name for the /models listing.
	assert.Equal(t, "gemini", models[0].Provider)
	assert.Equal(t, "venice", models[2].Provider)
	assert.Equal(t, "gemini/gemini-vision", models[0].Selector)
}

func TestRegistryGetBySelector(t *testing.T) {
	venice := &fakeProvider{name: "venice"}
	registry := registryWith(venice)

	// The advertised selector resolves to its provider.
	p, err := registry.Get("venice/venice-vision")
	require.NoError(t, err)
	assert.Equal(t, "venice", p.Name())

	// A model id the provider does not serve is rejected.
	_, err = registry.Get("venice/gpt-4o")
	assert.ErrorIs(t, err, ErrProviderNotConfigured)

	_, err = registry.Get("openai/gpt-4o")
	assert.ErrorIs(t, err, ErrProviderNotConfigured)
}

func TestAnalyzeAcceptsModelSelector(t *testing.T) {
	venice := &fakeProvider{name: "venice", description: "toast", rawEstimate: goodEstimateJSON}
	grok := &fakeProvider{name: "grok", description: "toast", rawEstimate: goodEstimateJSON}
	pipeline := NewPipelineService(registryWith(venice, grok), []string{"venice", "grok"})

	result, err := pipeline.Analyze(context.Background(), AnalyzeInput{Image: []byte{1}, Provider: "grok/grok-vision"})
	require.NoError(t, err)

	assert.Equal(t, "grok", result.Provider)
	assert.Zero(t, venice.describeRuns)
}

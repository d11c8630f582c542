package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/vivmuk/caloriecounter/metrics"
	"github.com/vivmuk/caloriecounter/models"
	"github.com/vivmuk/caloriecounter/utils"
)

// AnalyzeInput is one decoded photo plus options, ready for the pipeline.
type AnalyzeInput struct {
	ContentType string
	Image       []byte
	Notes       string
	Provider    string // empty means walk the fallback chain
}

// PipelineResult is the outcome of one successful two-stage run.
type PipelineResult struct {
	Estimate    models.NutritionEstimate `json:"estimate"`
	Warnings    []utils.Warning          `json:"warnings"`
	Provider    string                   `json:"provider"`
	VisionModel string                   `json:"vision_model"`
	TextModel   string                   `json:"text_model"`
	Description string                   `json:"description"`
	ElapsedMs   int64                    `json:"elapsed_ms"`
}

// PipelineService runs the vision→text pipeline with provider fallback.
type PipelineService struct {
	registry *Registry
	fallback []string
}

func NewPipelineService(registry *Registry, fallback []string) *PipelineService {
	return &PipelineService{registry: registry, fallback: fallback}
}

// Analyze runs the two-stage pipeline. With an explicit provider it is a
// single attempt; otherwise each fallback entry gets one shot and the
// errors are joined when every entry fails. A "no food" verdict from the
// vision stage stops the chain immediately — a different model will not
// find food either.
func (s *PipelineService) Analyze(ctx context.Context, in AnalyzeInput) (*PipelineResult, error) {
	chain := s.fallback
	if in.Provider != "" {
		chain = []string{in.Provider}
	}

	var errs []error
	for _, name := range chain {
		provider, err := s.registry.Get(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		result, err := s.runProvider(ctx, provider, in)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, ErrNoFoodDetected) || ctx.Err() != nil {
			return nil, err
		}
		log.Printf("pipeline: provider %s failed: %v", name, err)
		errs = append(errs, err)
	}

	return nil, fmt.Errorf("all providers failed: %w", errors.Join(errs...))
}

func (s *PipelineService) runProvider(ctx context.Context, provider Provider, in AnalyzeInput) (*PipelineResult, error) {
	start := time.Now()

	description, err := provider.DescribeMeal(ctx, in.ContentType, in.Image)
	if err != nil {
		return nil, err
	}
	if strings.Contains(strings.ToUpper(description), "NO FOOD DETECTED") {
		return nil, ErrNoFoodDetected
	}

	raw, err := provider.EstimateNutrition(ctx, description, in.Notes)
	if err != nil {
		return nil, err
	}

	var estimate models.NutritionEstimate
	if err := utils.DecodeModelJSON(raw, &estimate); err != nil {
		return nil, fmt.Errorf("provider %s: %w", provider.Name(), err)
	}
	normalizeEstimate(&estimate)

	warnings := utils.AssessEstimate(&estimate, utils.AssessmentContext{})
	estimate.Caveats = append(estimate.Caveats, utils.WarningMessages(warnings)...)

	elapsed := time.Since(start)
	metrics.ObservePipelineDuration(provider.Name(), elapsed.Seconds())

	return &PipelineResult{
		Estimate:    estimate,
		Warnings:    warnings,
		Provider:    provider.Name(),
		VisionModel: modelForRole(provider, "vision"),
		TextModel:   modelForRole(provider, "text"),
		Description: description,
		ElapsedMs:   elapsed.Milliseconds(),
	}, nil
}

func modelForRole(provider Provider, role string) string {
	for _, m := range provider.Models() {
		if m.Role == role {
			return m.ID
		}
	}
	return ""
}

// normalizeEstimate cleans up the numbers the models tend to get wrong:
// out-of-range confidence, negative quantities, and totals that disagree
// with their own item list.
func normalizeEstimate(est *models.NutritionEstimate) {
	est.Confidence = math.Max(0, math.Min(1, est.Confidence))

	for i := range est.Items {
		item := &est.Items[i]
		item.Grams = math.Max(0, item.Grams)
		item.Calories = math.Max(0, item.Calories)
		item.Protein = math.Max(0, item.Protein)
		item.Carbs = math.Max(0, item.Carbs)
		item.Fat = math.Max(0, item.Fat)
	}

	var fromItems models.MacroTotals
	for _, item := range est.Items {
		fromItems.Calories += item.Calories
		fromItems.Protein += item.Protein
		fromItems.Carbs += item.Carbs
		fromItems.Fat += item.Fat
	}
	if fromItems.Calories <= 0 {
		return
	}

	// Trust the model's totals unless they are missing or more than 15% off
	// the item sum; fiber and sugar have no per-item breakdown, so they are
	// kept either way.
	if est.Totals.Calories <= 0 ||
		math.Abs(est.Totals.Calories-fromItems.Calories)/fromItems.Calories > 0.15 {
		est.Totals.Calories = fromItems.Calories
		est.Totals.Protein = fromItems.Protein
		est.Totals.Carbs = fromItems.Carbs
		est.Totals.Fat = fromItems.Fat
		est.Caveats = append(est.Caveats, "Totals were recomputed from the per-item estimates.")
	}
}

package services

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/vivmuk/caloriecounter/config"
	"github.com/vivmuk/caloriecounter/metrics"
)

// GeminiService runs both pipeline stages through Google's genai SDK
// instead of the OpenAI-compatible path.
type GeminiService struct {
	client      *genai.Client
	visionModel string
	textModel   string
}

func NewGeminiService(apiKey string) (*GeminiService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: %w", ErrProviderNotConfigured)
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiService{
		client:      client,
		visionModel: config.GetEnv("GEMINI_VISION_MODEL", "gemini-2.0-flash"),
		textModel:   config.GetEnv("GEMINI_TEXT_MODEL", "gemini-2.0-flash"),
	}, nil
}

func (s *GeminiService) Name() string { return "gemini" }

func (s *GeminiService) Models() []ModelInfo {
	return []ModelInfo{
		{Provider: "gemini", ID: s.visionModel, Role: "vision"},
		{Provider: "gemini", ID: s.textModel, Role: "text"},
	}
}

func (s *GeminiService) DescribeMeal(ctx context.Context, contentType string, image []byte) (string, error) {
	metrics.ObserveLLMRequest("gemini", s.visionModel, "vision")

	parts := []*genai.Part{
		genai.NewPartFromBytes(image, contentType),
		genai.NewPartFromText(MealDescriptionPrompt),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	result, err := s.client.Models.GenerateContent(ctx, s.visionModel, contents, nil)
	if err != nil {
		metrics.ObserveLLMError("gemini", s.visionModel, "vision")
		return "", fmt.Errorf("gemini vision request failed: %w", err)
	}
	text := result.Text()
	if text == "" {
		metrics.ObserveLLMError("gemini", s.visionModel, "vision")
		return "", fmt.Errorf("gemini vision request returned no text")
	}
	return text, nil
}

func (s *GeminiService) EstimateNutrition(ctx context.Context, description, notes string) (string, error) {
	metrics.ObserveLLMRequest("gemini", s.textModel, "text")

	contents := []*genai.Content{
		genai.NewContentFromText(BuildNutritionPrompt(description, notes), genai.RoleUser),
	}
	genConfig := &genai.GenerateContentConfig{
		ResponseMIMEType:  "application/json",
		Temperature:       genai.Ptr[float32](0.2),
		SystemInstruction: genai.NewContentFromText(nutritionSystemPrompt, genai.RoleUser),
	}

	result, err := s.client.Models.GenerateContent(ctx, s.textModel, contents, genConfig)
	if err != nil {
		metrics.ObserveLLMError("gemini", s.textModel, "text")
		return "", fmt.Errorf("gemini nutrition request failed: %w", err)
	}
	text := result.Text()
	if text == "" {
		metrics.ObserveLLMError("gemini", s.textModel, "text")
		return "", fmt.Errorf("gemini nutrition request returned no text")
	}
	return text, nil
}

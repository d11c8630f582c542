package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	openaiClient "github.com/sashabaranov/go-openai"

	"github.com/vivmuk/caloriecounter/metrics"
)

// OpenAICompatConfig configures one OpenAI-compatible provider. Venice,
// Grok and MiniMax all speak the same chat-completions dialect; only the
// base URL, key and model names differ.
type OpenAICompatConfig struct {
	Name        string
	APIKey      string
	BaseURL     string
	VisionModel string
	TextModel   string

	// UseJSONSchema attaches a json_schema response format to stage two.
	// Some compatible endpoints reject it, hence the switch.
	UseJSONSchema bool
}

type OpenAICompatService struct {
	client *openaiClient.Client
	config OpenAICompatConfig
}

func NewOpenAICompatService(config OpenAICompatConfig) *OpenAICompatService {
	clientConfig := openaiClient.DefaultConfig(config.APIKey)
	clientConfig.BaseURL = strings.TrimSuffix(config.BaseURL, "/")
	clientConfig.HTTPClient = &http.Client{Timeout: 120 * time.Second}

	return &OpenAICompatService{
		client: openaiClient.NewClientWithConfig(clientConfig),
		config: config,
	}
}

func (s *OpenAICompatService) Name() string { return s.config.Name }

func (s *OpenAICompatService) Models() []ModelInfo {
	return []ModelInfo{
		{Provider: s.config.Name, ID: s.config.VisionModel, Role: "vision"},
		{Provider: s.config.Name, ID: s.config.TextModel, Role: "text"},
	}
}

func (s *OpenAICompatService) DescribeMeal(ctx context.Context, contentType string, image []byte) (string, error) {
	metrics.ObserveLLMRequest(s.config.Name, s.config.VisionModel, "vision")

	encoded := fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(image))
	resp, err := s.client.CreateChatCompletion(ctx, openaiClient.ChatCompletionRequest{
		Model:     s.config.VisionModel,
		MaxTokens: 1024,
		Messages: []openaiClient.ChatCompletionMessage{
			{
				Role: openaiClient.ChatMessageRoleUser,
				MultiContent: []openaiClient.ChatMessagePart{
					{
						Type: openaiClient.ChatMessagePartTypeText,
						Text: MealDescriptionPrompt,
					},
					{
						Type: openaiClient.ChatMessagePartTypeImageURL,
						ImageURL: &openaiClient.ChatMessageImageURL{
							URL:    encoded,
							Detail: openaiClient.ImageURLDetailAuto,
						},
					},
				},
			},
		},
	})
	if err != nil {
		metrics.ObserveLLMError(s.config.Name, s.config.VisionModel, "vision")
		return "", fmt.Errorf("%s vision request failed: %w", s.config.Name, err)
	}
	if len(resp.Choices) == 0 {
		metrics.ObserveLLMError(s.config.Name, s.config.VisionModel, "vision")
		return "", fmt.Errorf("%s vision request returned no choices", s.config.Name)
	}
	return resp.Choices[0].Message.Content, nil
}

func (s *OpenAICompatService) EstimateNutrition(ctx context.Context, description, notes string) (string, error) {
	metrics.ObserveLLMRequest(s.config.Name, s.config.TextModel, "text")

	request := openaiClient.ChatCompletionRequest{
		Model:       s.config.TextModel,
		MaxTokens:   2048,
		Temperature: 0.2,
		Messages: []openaiClient.ChatCompletionMessage{
			{Role: openaiClient.ChatMessageRoleSystem, Content: nutritionSystemPrompt},
			{Role: openaiClient.ChatMessageRoleUser, Content: BuildNutritionPrompt(description, notes)},
		},
	}
	if s.config.UseJSONSchema {
		request.ResponseFormat = &openaiClient.ChatCompletionResponseFormat{
			Type: openaiClient.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openaiClient.ChatCompletionResponseFormatJSONSchema{
				Name:   "nutrition_estimate",
				Schema: NutritionSchema(),
			},
		}
	}

	resp, err := s.client.CreateChatCompletion(ctx, request)
	if err != nil {
		metrics.ObserveLLMError(s.config.Name, s.config.TextModel, "text")
		return "", fmt.Errorf("%s nutrition request failed: %w", s.config.Name, err)
	}
	if len(resp.Choices) == 0 {
		metrics.ObserveLLMError(s.config.Name, s.config.TextModel, "text")
		return "", fmt.Errorf("%s nutrition request returned no choices", s.config.Name)
	}
	return resp.Choices[0].Message.Content, nil
}

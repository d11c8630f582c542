package services

import (
	"os"

	"github.com/vivmuk/caloriecounter/config"
)

const grokBaseURL = "https://api.x.ai/v1"

// NewGrokService talks to x.ai's OpenAI-compatible endpoint.
func NewGrokService() *OpenAICompatService {
	return NewOpenAICompatService(OpenAICompatConfig{
		Name:        "grok",
		APIKey:      os.Getenv("XAI_API_KEY"),
		BaseURL:     grokBaseURL,
		VisionModel: config.GetEnv("GROK_VISION_MODEL", "grok-2-vision-1212"),
		TextModel:   config.GetEnv("GROK_TEXT_MODEL", "grok-2-1212"),
	})
}

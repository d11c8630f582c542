package services

import (
	"os"

	"github.com/vivmuk/caloriecounter/config"
)

const minimaxBaseURL = "https://api.minimax.io/v1"

// NewMiniMaxService talks to MiniMax's OpenAI-compatible endpoint.
func NewMiniMaxService() *OpenAICompatService {
	return NewOpenAICompatService(OpenAICompatConfig{
		Name:        "minimax",
		APIKey:      os.Getenv("MINIMAX_API_KEY"),
		BaseURL:     minimaxBaseURL,
		VisionModel: config.GetEnv("MINIMAX_VISION_MODEL", "MiniMax-VL-01"),
		TextModel:   config.GetEnv("MINIMAX_TEXT_MODEL", "MiniMax-Text-01"),
	})
}

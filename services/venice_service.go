package services

import (
	"os"

	"github.com/vivmuk/caloriecounter/config"
)

const veniceBaseURL = "https://api.venice.ai/api/v1"

// NewVeniceService builds the primary provider. Venice exposes an
// OpenAI-compatible API; model names can be overridden from the
// environment when Venice rotates its lineup.
func NewVeniceService() *OpenAICompatService {
	return NewOpenAICompatService(OpenAICompatConfig{
		Name:          "venice",
		APIKey:        os.Getenv("VENICE_API_KEY"),
		BaseURL:       veniceBaseURL,
		VisionModel:   config.GetEnv("VENICE_VISION_MODEL", "qwen-2.5-vl"),
		TextModel:     config.GetEnv("VENICE_TEXT_MODEL", "llama-3.3-70b"),
		UseJSONSchema: true,
	})
}

// NewVeniceBackupService is the second entry in the fallback chain: same
// account, Venice's secondary vision model, schema disabled because the
// backup models reject response_format.
func NewVeniceBackupService() *OpenAICompatService {
	return NewOpenAICompatService(OpenAICompatConfig{
		Name:        "venice-backup",
		APIKey:      os.Getenv("VENICE_API_KEY"),
		BaseURL:     veniceBaseURL,
		VisionModel: config.GetEnv("VENICE_BACKUP_VISION_MODEL", "mistral-31-24b"),
		TextModel:   config.GetEnv("VENICE_BACKUP_TEXT_MODEL", "mistral-31-24b"),
	})
}

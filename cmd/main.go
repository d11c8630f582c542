package main

import (
	"log"
	"os"

	"github.com/vivmuk/caloriecounter/config"
	"github.com/vivmuk/caloriecounter/controllers"
	"github.com/vivmuk/caloriecounter/routes"
	"github.com/vivmuk/caloriecounter/services"
	"github.com/vivmuk/caloriecounter/utils"
)

func main() {
	config.LoadEnv()
	config.InitDB()
	utils.InitS3()

	registry := buildRegistry()
	if len(registry.Names()) == 0 {
		log.Fatal("No AI provider configured; set VENICE_API_KEY (or GEMINI_API_KEY, XAI_API_KEY, MINIMAX_API_KEY)")
	}
	log.Printf("Providers configured: %v", registry.Names())

	pipeline := services.NewPipelineService(registry, fallbackChain(registry))

	var guard *services.RekognitionService
	if os.Getenv("AWS_REGION") != "" {
		g, err := services.NewRekognitionService()
		if err != nil {
			log.Printf("Rekognition pre-screen disabled: %v", err)
		} else {
			guard = g
		}
	}

	hub := services.NewRealtimeHub()
	analysis := services.NewAnalysisService(pipeline, services.NewEdamamService(), guard, hub)
	compare := services.NewCompareService(pipeline, registry, hub)

	r := routes.SetupRouter(routes.Controllers{
		Analyze:  controllers.NewAnalyzeController(analysis),
		Compare:  controllers.NewCompareController(analysis, compare),
		Models:   controllers.NewModelController(registry),
		Realtime: controllers.NewRealtimeController(hub),
	})

	port := config.GetEnv("PORT", "8080")
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func buildRegistry() *services.Registry {
	registry := services.NewRegistry()

	if os.Getenv("VENICE_API_KEY") != "" {
		registry.Register(services.NewVeniceService())
		registry.Register(services.NewVeniceBackupService())
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		gemini, err := services.NewGeminiService(key)
		if err != nil {
			log.Printf("Gemini disabled: %v", err)
		} else {
			registry.Register(gemini)
		}
	}
	if os.Getenv("XAI_API_KEY") != "" {
		registry.Register(services.NewGrokService())
	}
	if os.Getenv("MINIMAX_API_KEY") != "" {
		registry.Register(services.NewMiniMaxService())
	}

	return registry
}

// fallbackChain is the order tried when the caller does not pick a model:
// Venice first, its backup models second, then the other vendors.
// Unconfigured entries are skipped.
func fallbackChain(registry *services.Registry) []string {
	preferred := []string{"venice", "venice-backup", "gemini", "grok", "minimax"}
	configured := make(map[string]bool)
	for _, name := range registry.Names() {
		configured[name] = true
	}

	var chain []string
	for _, name := range preferred {
		if configured[name] {
			chain = append(chain, name)
		}
	}
	return chain
}

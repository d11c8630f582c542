package services

import (
	"context"
	"log"
	"sync"
	"time"
)

// maxConcurrentPipelines bounds the provider fan-out so a comparison never
// opens more than a handful of upstream requests at once.
const maxConcurrentPipelines = 4

// ModelComparison is one slot of a comparison: either a result or an error
// string, never both. Failed providers do not abort the batch.
type ModelComparison struct {
	Provider  string          `json:"provider"`
	Result    *PipelineResult `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	ElapsedMs int64           `json:"elapsed_ms"`
}

type CompareService struct {
	pipeline *PipelineService
	registry *Registry
	hub      *RealtimeHub
}

func NewCompareService(pipeline *PipelineService, registry *Registry, hub *RealtimeHub) *CompareService {
	return &CompareService{pipeline: pipeline, registry: registry, hub: hub}
}

// DefaultProviders is the comparison lineup when the caller does not pick:
// every registered provider except the Venice backup entry, which exists
// only for fallback.
func (s *CompareService) DefaultProviders() []string {
	var out []string
	for _, name := range s.registry.Names() {
		if name == "venice-backup" {
			continue
		}
		out = append(out, name)
	}
	return out
}

// Compare fans the full pipeline out over the requested providers with a
// bounded number in flight. Results arrive in the input order; progress is
// broadcast to the user's websocket clients as each provider settles.
func (s *CompareService) Compare(ctx context.Context, userID uint, in AnalyzeInput, providers []string) []ModelComparison {
	if len(providers) == 0 {
		providers = s.DefaultProviders()
	}

	results := make([]ModelComparison, len(providers))

	semaphore := make(chan struct{}, maxConcurrentPipelines)
	var wg sync.WaitGroup

	s.broadcast(userID, "compare.started", map[string]any{"providers": providers})

	for i, name := range providers {
		wg.Add(1)
		go func(slot int, provider string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			start := time.Now()
			input := in
			input.Provider = provider

			comparison := ModelComparison{Provider: provider}
			result, err := s.pipeline.Analyze(ctx, input)
			if err != nil {
				log.Printf("compare: provider %s failed: %v", provider, err)
				comparison.Error = err.Error()
			} else {
				comparison.Result = result
			}
			comparison.ElapsedMs = time.Since(start).Milliseconds()
			results[slot] = comparison

			s.broadcast(userID, "compare.result", comparison)
		}(i, name)
	}

	wg.Wait()
	s.broadcast(userID, "compare.finished", map[string]any{"providers": providers})

	return results
}

func (s *CompareService) broadcast(userID uint, kind string, payload any) {
	if s.hub == nil || userID == 0 {
		return
	}
	s.hub.Broadcast(userID, kind, payload)
}

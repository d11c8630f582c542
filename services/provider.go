package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	ErrProviderNotConfigured = errors.New("provider not configured")
	ErrNoFoodDetected        = errors.New("no food or drink detected in the image")
	ErrInvalidImage          = errors.New("invalid image")
)

// Provider is one hosted AI backend able to run both pipeline stages.
type Provider interface {
	Name() string
	Models() []ModelInfo

	// DescribeMeal runs the vision model over the photo and returns
	// descriptive text (stage one).
	DescribeMeal(ctx context.Context, contentType string, image []byte) (string, error)

	// EstimateNutrition turns a meal description into the raw model output
	// that should contain a single NutritionEstimate JSON object (stage two).
	// Cleaning and parsing are the caller's job.
	EstimateNutrition(ctx context.Context, description, notes string) (string, error)
}

type ModelInfo struct {
	Provider string `json:"provider"`
	ID       string `json:"id"`
	Role     string `json:"role"` // "vision" or "text"

	// Selector is what clients put in a request's "model" field to run
	// this entry: "<provider>/<id>". Filled by the registry.
	Selector string `json:"selector,omitempty"`
}

// Registry maps provider names to configured providers. Providers register
// at startup only when their API key is present.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	order     []string
}

func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[p.Name()]; !ok {
		r.order = append(r.order, p.Name())
	}
	r.providers[p.Name()] = p
}

// Get resolves a selector to a provider. A selector is either a bare
// provider name ("venice") or a provider-qualified model id exactly as the
// models listing advertises it ("venice/qwen-2.5-vl").
func (r *Registry) Get(selector string) (Provider, error) {
	name, modelID, qualified := strings.Cut(selector, "/")

	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotConfigured, selector)
	}
	if qualified && !providerHasModel(p, modelID) {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotConfigured, selector)
	}
	return p, nil
}

func providerHasModel(p Provider, modelID string) bool {
	for _, m := range p.Models() {
		if m.ID == modelID {
			return true
		}
	}
	return false
}

// Names returns provider names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// AllModels lists every model of every registered provider, sorted by
// provider for stable /models responses.
func (r *Registry) AllModels() []ModelInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []ModelInfo
	for _, name := range r.order {
		for _, m := range r.providers[name].Models() {
			m.Selector = m.Provider + "/" + m.ID
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Provider < out[j].Provider })
	return out
}

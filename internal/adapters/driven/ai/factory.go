package ai

import (
	"fmt"

	"github.com/synapse-med/synapse-core/internal/core/domain"
	"github.com/synapse-med/synapse-core/internal/core/ports/driven"
)

// Factory creates AI services based on configuration
type Factory struct{}

// NewFactory creates a new AI service factory
func NewFactory() *Factory {
	return &Factory{}
}

// CreateDenseEmbedder creates a dense embedding service from settings.
// Returns nil, nil when settings are absent or incomplete.
func (f *Factory) CreateDenseEmbedder(settings *domain.EmbeddingSettings) (driven.DenseEmbedder, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOpenAI:
		return NewOpenAIEmbedding(settings.APIKey, settings.Model, settings.BaseURL)
	case domain.AIProviderLocal:
		return NewLocalEmbedding(settings.BaseURL, settings.Model)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidProvider, settings.Provider)
	}
}

// CreateLLMService creates an LLM service from settings.
// Returns nil, nil when settings are absent or incomplete. The local
// provider targets an OpenAI-compatible endpoint at the base URL.
func (f *Factory) CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOpenAI:
		return NewOpenAILLM(settings.APIKey, settings.Model, settings.BaseURL)
	case domain.AIProviderLocal:
		if settings.BaseURL == "" {
			return nil, fmt.Errorf("%w: local LLM requires a base URL", domain.ErrInvalidInput)
		}
		return NewOpenAILLM(settings.APIKey, settings.Model, settings.BaseURL)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidProvider, settings.Provider)
	}
}

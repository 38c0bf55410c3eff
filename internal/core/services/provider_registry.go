package services

import (
	"fmt"

	"github.com/custodia-labs/ytqa/internal/core/domain"
)

// Hosted endpoints for Hugging Face. Chat goes through the OpenAI-compatible
// router; embeddings use the feature-extraction pipeline.
const (
	HuggingFaceRouterURL    = "https://router.huggingface.co/v1"
	HuggingFaceInferenceURL = "https://router.huggingface.co/hf-inference/models"
)

// Environment variables named in ErrNoProvider messages.
const (
	llmEnvHint       = "GOOGLE_API_KEY, HUGGINGFACEHUB_ACCESS_TOKEN, OPENAI_API_KEY or OLLAMA_HOST"
	embeddingEnvHint = "OPENAI_API_KEY, HUGGINGFACEHUB_ACCESS_TOKEN or OLLAMA_HOST"
)

// ProviderRegistry turns environment credentials into ordered provider
// candidates. The first configured candidate wins.
//
// LLM order: Google, Hugging Face, OpenAI, Ollama.
// Embedding order: OpenAI, Hugging Face, Ollama.
type ProviderRegistry struct {
	keys domain.ProviderKeys
}

// NewProviderRegistry creates a registry over keys.
func NewProviderRegistry(keys domain.ProviderKeys) *ProviderRegistry {
	return &ProviderRegistry{keys: keys}
}

// Keys returns the credentials the registry was built with.
func (r *ProviderRegistry) Keys() domain.ProviderKeys {
	return r.keys
}

// LLMCandidates returns every chat provider in precedence order.
// Ollama is only a candidate when OLLAMA_HOST is set.
func (r *ProviderRegistry) LLMCandidates() []domain.LLMSettings {
	models := domain.DefaultLLMModels()
	k := r.keys

	candidates := []domain.LLMSettings{
		{
			Provider: domain.AIProviderGoogle,
			Model:    orDefault(k.GoogleModel, models[domain.AIProviderGoogle]),
			APIKey:   k.GoogleAPIKey,
		},
		{
			Provider: domain.AIProviderHuggingFace,
			Model:    orDefault(k.HuggingFaceModel, models[domain.AIProviderHuggingFace]),
			BaseURL:  HuggingFaceRouterURL,
			APIKey:   k.HuggingFaceToken,
		},
		{
			Provider: domain.AIProviderOpenAI,
			Model:    orDefault(k.OpenAIModel, models[domain.AIProviderOpenAI]),
			BaseURL:  k.OpenAIBaseURL,
			APIKey:   k.OpenAIAPIKey,
		},
	}
	if k.OllamaHost != "" {
		candidates = append(candidates, domain.LLMSettings{
			Provider: domain.AIProviderOllama,
			Model:    orDefault(k.OllamaModel, models[domain.AIProviderOllama]),
			BaseURL:  k.OllamaHost,
		})
	}
	return candidates
}

// EmbeddingCandidates returns every embedding provider in precedence order.
func (r *ProviderRegistry) EmbeddingCandidates() []domain.EmbeddingSettings {
	models := domain.DefaultEmbeddingModels()
	k := r.keys

	candidates := []domain.EmbeddingSettings{
		{
			Provider: domain.AIProviderOpenAI,
			Model:    orDefault(k.OpenAIEmbeddingModel, models[domain.AIProviderOpenAI]),
			BaseURL:  k.OpenAIBaseURL,
			APIKey:   k.OpenAIAPIKey,
		},
		{
			Provider: domain.AIProviderHuggingFace,
			Model:    orDefault(k.HuggingFaceEmbeddingModel, models[domain.AIProviderHuggingFace]),
			BaseURL:  HuggingFaceInferenceURL,
			APIKey:   k.HuggingFaceToken,
		},
	}
	if k.OllamaHost != "" {
		candidates = append(candidates, domain.EmbeddingSettings{
			Provider: domain.AIProviderOllama,
			Model:    orDefault(k.OllamaEmbeddingModel, models[domain.AIProviderOllama]),
			BaseURL:  k.OllamaHost,
		})
	}
	return candidates
}

// SelectLLM returns the first configured chat provider.
func (r *ProviderRegistry) SelectLLM() (domain.LLMSettings, error) {
	for _, c := range r.LLMCandidates() {
		if c.IsConfigured() {
			return c, nil
		}
	}
	return domain.LLMSettings{}, fmt.Errorf("%w for chat: set %s", domain.ErrNoProvider, llmEnvHint)
}

// SelectEmbedding returns the first configured embedding provider.
func (r *ProviderRegistry) SelectEmbedding() (domain.EmbeddingSettings, error) {
	for _, c := range r.EmbeddingCandidates() {
		if c.IsConfigured() {
			return c, nil
		}
	}
	return domain.EmbeddingSettings{}, fmt.Errorf("%w for embeddings: set %s", domain.ErrNoProvider, embeddingEnvHint)
}

func orDefault(val, defaultVal string) string {
	if val != "" {
		return val
	}
	return defaultVal
}

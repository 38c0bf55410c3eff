package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ytqa/internal/core/domain"
)

func TestProviderRegistry_SelectLLM_Precedence(t *testing.T) {
	tests := []struct {
		name     string
		keys     domain.ProviderKeys
		provider domain.AIProvider
		model    string
	}{
		{
			name:     "google wins over everything",
			keys:     domain.ProviderKeys{GoogleAPIKey: "g", HuggingFaceToken: "h", OpenAIAPIKey: "o", OllamaHost: "http://localhost:11434"},
			provider: domain.AIProviderGoogle,
			model:    "gemini-2.5-flash",
		},
		{
			name:     "huggingface before openai",
			keys:     domain.ProviderKeys{HuggingFaceToken: "h", OpenAIAPIKey: "o"},
			provider: domain.AIProviderHuggingFace,
			model:    "deepseek-ai/DeepSeek-R1-0528",
		},
		{
			name:     "openai with model override",
			keys:     domain.ProviderKeys{OpenAIAPIKey: "o", OpenAIModel: "gpt-4o"},
			provider: domain.AIProviderOpenAI,
			model:    "gpt-4o",
		},
		{
			name:     "ollama is the last resort",
			keys:     domain.ProviderKeys{OllamaHost: "http://localhost:11434"},
			provider: domain.AIProviderOllama,
			model:    "llama3.2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewProviderRegistry(tt.keys).SelectLLM()
			require.NoError(t, err)
			assert.Equal(t, tt.provider, got.Provider)
			assert.Equal(t, tt.model, got.Model)
		})
	}
}

func TestProviderRegistry_SelectLLM_HuggingFaceUsesRouter(t *testing.T) {
	got, err := NewProviderRegistry(domain.ProviderKeys{HuggingFaceToken: "h"}).SelectLLM()
	require.NoError(t, err)
	assert.Equal(t, HuggingFaceRouterURL, got.BaseURL)
	assert.Equal(t, "h", got.APIKey)
}

func TestProviderRegistry_SelectEmbedding_Precedence(t *testing.T) {
	r := NewProviderRegistry(domain.ProviderKeys{GoogleAPIKey: "g", HuggingFaceToken: "h", OpenAIAPIKey: "o"})
	got, err := r.SelectEmbedding()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, got.Provider)
	assert.Equal(t, "text-embedding-3-large", got.Model)

	r = NewProviderRegistry(domain.ProviderKeys{GoogleAPIKey: "g", HuggingFaceToken: "h"})
	got, err = r.SelectEmbedding()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderHuggingFace, got.Provider)
	assert.Equal(t, "intfloat/e5-mistral-7b-instruct", got.Model)
	assert.Equal(t, HuggingFaceInferenceURL, got.BaseURL)
}

func TestProviderRegistry_NoProvider(t *testing.T) {
	r := NewProviderRegistry(domain.ProviderKeys{})

	_, err := r.SelectLLM()
	require.ErrorIs(t, err, domain.ErrNoProvider)
	assert.Contains(t, err.Error(), "GOOGLE_API_KEY")

	_, err = r.SelectEmbedding()
	require.ErrorIs(t, err, domain.ErrNoProvider)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestProviderRegistry_GoogleKeyAloneHasNoEmbeddings(t *testing.T) {
	r := NewProviderRegistry(domain.ProviderKeys{GoogleAPIKey: "g"})

	_, err := r.SelectLLM()
	assert.NoError(t, err)
	_, err = r.SelectEmbedding()
	assert.ErrorIs(t, err, domain.ErrNoProvider)
}

func TestProviderRegistry_OllamaOptIn(t *testing.T) {
	r := NewProviderRegistry(domain.ProviderKeys{})
	assert.Len(t, r.LLMCandidates(), 3)
	assert.Len(t, r.EmbeddingCandidates(), 2)

	r = NewProviderRegistry(domain.ProviderKeys{OllamaHost: "http://localhost:11434"})
	assert.Len(t, r.LLMCandidates(), 4)
	assert.Len(t, r.EmbeddingCandidates(), 3)
}

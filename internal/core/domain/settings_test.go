package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAIProvider_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		provider AIProvider
		expected bool
	}{
		{"google is valid", AIProviderGoogle, true},
		{"huggingface is valid", AIProviderHuggingFace, true},
		{"openai is valid", AIProviderOpenAI, true},
		{"ollama is valid", AIProviderOllama, true},
		{"empty is invalid", AIProvider(""), false},
		{"anthropic is invalid", AIProvider("anthropic"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.provider.IsValid())
		})
	}
}

func TestAIProvider_RequiresAPIKey(t *testing.T) {
	assert.True(t, AIProviderGoogle.RequiresAPIKey())
	assert.True(t, AIProviderHuggingFace.RequiresAPIKey())
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.True(t, AIProviderOllama.IsLocal())
}

func TestAIProvider_Description(t *testing.T) {
	assert.Equal(t, "Google Gemini (cloud)", AIProviderGoogle.Description())
	assert.Equal(t, "Ollama (local)", AIProviderOllama.Description())
	assert.Equal(t, unknownDescription, AIProvider("nope").Description())
}

func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings EmbeddingSettings
		expected bool
	}{
		{"empty", EmbeddingSettings{}, false},
		{"openai without key", EmbeddingSettings{Provider: AIProviderOpenAI}, false},
		{"openai with key", EmbeddingSettings{Provider: AIProviderOpenAI, APIKey: "k"}, true},
		{"huggingface with key", EmbeddingSettings{Provider: AIProviderHuggingFace, APIKey: "k"}, true},
		{"ollama without key", EmbeddingSettings{Provider: AIProviderOllama}, true},
		{"google has no embeddings", EmbeddingSettings{Provider: AIProviderGoogle, APIKey: "k"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.settings.IsConfigured())
		})
	}
}

func TestLLMSettings_IsConfigured(t *testing.T) {
	assert.False(t, LLMSettings{}.IsConfigured())
	assert.False(t, LLMSettings{Provider: AIProviderGoogle}.IsConfigured())
	assert.True(t, LLMSettings{Provider: AIProviderGoogle, APIKey: "k"}.IsConfigured())
	assert.True(t, LLMSettings{Provider: AIProviderOllama}.IsConfigured())
}

func TestVectorBackend_IsValid(t *testing.T) {
	assert.True(t, VectorBackendSQLite.IsValid())
	assert.True(t, VectorBackendPostgres.IsValid())
	assert.True(t, VectorBackendMemory.IsValid())
	assert.False(t, VectorBackend("chroma").IsValid())
}

func TestDefaultModels(t *testing.T) {
	llm := DefaultLLMModels()
	assert.Equal(t, "gemini-2.5-flash", llm[AIProviderGoogle])
	assert.Equal(t, "deepseek-ai/DeepSeek-R1-0528", llm[AIProviderHuggingFace])
	assert.Equal(t, "gpt-4.1-mini", llm[AIProviderOpenAI])

	emb := DefaultEmbeddingModels()
	assert.Equal(t, "text-embedding-3-large", emb[AIProviderOpenAI])
	assert.Equal(t, "intfloat/e5-mistral-7b-instruct", emb[AIProviderHuggingFace])
}

func TestEmbeddingDimensions(t *testing.T) {
	dims := EmbeddingDimensions()
	assert.Equal(t, 3072, dims["text-embedding-3-large"])
	assert.Equal(t, 1536, dims["text-embedding-3-small"])
	assert.Equal(t, 4096, dims["intfloat/e5-mistral-7b-instruct"])
}

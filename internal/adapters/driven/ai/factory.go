// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	hfembed "github.com/custodia-labs/ytqa/internal/adapters/driven/embedding/huggingface"
	ollamaembed "github.com/custodia-labs/ytqa/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/ytqa/internal/adapters/driven/embedding/openai"
	googlellm "github.com/custodia-labs/ytqa/internal/adapters/driven/llm/google"
	ollamallm "github.com/custodia-labs/ytqa/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/ytqa/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/ytqa/internal/core/domain"
	"github.com/custodia-labs/ytqa/internal/core/ports/driven"
	"github.com/custodia-labs/ytqa/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 10 * time.Second

// InitResult holds the AI clients shared by every request.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService
}

// Init creates both clients. Neither is pinged; failures surface on first use.
func Init(ctx context.Context, llm domain.LLMSettings, embedding domain.EmbeddingSettings) (*InitResult, error) {
	embedSvc, err := CreateEmbeddingService(embedding)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	llmSvc, err := CreateLLMService(ctx, llm)
	if err != nil {
		_ = embedSvc.Close()
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}

	logger.Info("AI: chat %s/%s, embeddings %s/%s",
		llm.Provider, llmSvc.ModelName(), embedding.Provider, embedSvc.ModelName())

	return &InitResult{EmbeddingService: embedSvc, LLMService: llmSvc}, nil
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() error {
	var errs []error
	if r.EmbeddingService != nil {
		errs = append(errs, r.EmbeddingService.Close())
	}
	if r.LLMService != nil {
		errs = append(errs, r.LLMService.Close())
	}
	return errors.Join(errs...)
}

// ValidateEmbeddingConfig creates an embedding service and pings it.
// Unconfigured settings are not an error.
func ValidateEmbeddingConfig(ctx context.Context, settings domain.EmbeddingSettings) error {
	if !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// ValidateLLMConfig creates an LLM service and pings it.
// Unconfigured settings are not an error.
func ValidateLLMConfig(ctx context.Context, settings domain.LLMSettings) error {
	if !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateLLMService(ctx, settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateEmbeddingService creates the embedding service for settings.
func CreateEmbeddingService(settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("embedding provider %q is not configured", settings.Provider)
	}

	dimensions := domain.EmbeddingDimensions()[settings.Model]

	switch settings.Provider {
	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderHuggingFace:
		return hfembed.NewEmbeddingService(hfembed.Config{
			Token:      settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: dimensions,
		})

	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: dimensions,
		}), nil

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService creates the chat service for settings.
// Hugging Face models are served through the OpenAI-compatible router.
func CreateLLMService(ctx context.Context, settings domain.LLMSettings) (driven.LLMService, error) {
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("LLM provider %q is not configured", settings.Provider)
	}

	switch settings.Provider {
	case domain.AIProviderGoogle:
		return googlellm.NewLLMService(ctx, googlellm.LLMConfig{
			APIKey:   settings.APIKey,
			Model:    settings.Model,
			Endpoint: settings.BaseURL,
		})

	case domain.AIProviderHuggingFace, domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

package driven

import (
	"context"

	"github.com/custodia-labs/ytqa/internal/core/domain"
)

// AIConfigValidator checks provider settings by pinging the configured service.
// Used by `ytqa providers --check` before any question is asked.
type AIConfigValidator interface {
	// ValidateEmbedding pings the embedding provider.
	// Returns nil if the settings are not configured.
	ValidateEmbedding(ctx context.Context, settings domain.EmbeddingSettings) error

	// ValidateLLM pings the chat provider.
	// Returns nil if the settings are not configured.
	ValidateLLM(ctx context.Context, settings domain.LLMSettings) error
}

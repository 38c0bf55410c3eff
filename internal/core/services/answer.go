package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/ytqa/internal/core/domain"
	"github.com/custodia-labs/ytqa/internal/core/ports/driven"
	"github.com/custodia-labs/ytqa/internal/logger"
)

const defaultThinkEndMarker = "</think>"

// AnswerConfig configures AnswerGenerator.
type AnswerConfig struct {
	Temperature float64

	// ThinkEndMarker ends a reasoning preamble that is removed from replies.
	// Empty disables stripping.
	ThinkEndMarker string

	// MaxTokens caps the reply length; 0 leaves it to the provider.
	MaxTokens int
}

// DefaultAnswerConfig returns the answer defaults.
func DefaultAnswerConfig() AnswerConfig {
	g := domain.DefaultAppSettings().Generation
	return AnswerConfig{
		Temperature:    g.Temperature,
		ThinkEndMarker: g.ThinkEndMarker,
		MaxTokens:      g.MaxTokens,
	}
}

// AnswerGenerator calls the language model with an assembled prompt.
type AnswerGenerator struct {
	llm driven.LLMService
	cfg AnswerConfig
}

// NewAnswerGenerator creates an answer generator.
func NewAnswerGenerator(llm driven.LLMService, cfg AnswerConfig) *AnswerGenerator {
	return &AnswerGenerator{llm: llm, cfg: cfg}
}

// ModelName returns the underlying model name.
func (g *AnswerGenerator) ModelName() string {
	if g.llm == nil {
		return ""
	}
	return g.llm.ModelName()
}

// Generate returns the model's answer to req.
// Any provider failure is reported as domain.ErrGenerationFailed.
func (g *AnswerGenerator) Generate(ctx context.Context, req domain.PromptRequest) (string, error) {
	if g.llm == nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGenerationFailed, domain.ErrLLMUnavailable)
	}

	messages := []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: req.System},
		{Role: driven.RoleUser, Content: req.User},
	}

	out, err := g.llm.Chat(ctx, messages, driven.ChatOptions{
		Temperature: g.cfg.Temperature,
		MaxTokens:   g.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}

	answer := strings.TrimSpace(stripThinking(out, g.cfg.ThinkEndMarker))
	logger.Debug("Answer: %s returned %d chars", g.llm.ModelName(), len(answer))
	return answer, nil
}

// stripThinking drops everything up to and including the last marker.
func stripThinking(text, marker string) string {
	if marker == "" {
		return text
	}
	if i := strings.LastIndex(text, marker); i >= 0 {
		return text[i+len(marker):]
	}
	return text
}

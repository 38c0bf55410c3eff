// Package google provides an LLM service adapter for Gemini models through
// the Generative Language API.
package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/custodia-labs/ytqa/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// DefaultLLMModel is the Gemini model used when none is configured.
const DefaultLLMModel = "gemini-2.5-flash"

// Gemini has no system role in contents; assistant turns are "model".
const (
	roleUser  = "user"
	roleModel = "model"
)

// LLMConfig holds configuration for the Gemini LLM service.
type LLMConfig struct {
	// APIKey is the Google AI Studio key (required).
	APIKey string

	// Model is the Gemini model id, with or without the "models/" prefix.
	Model string

	// Endpoint overrides the API root, mainly for tests.
	Endpoint string
}

// LLMService provides LLM operations using Gemini.
type LLMService struct {
	svc   *generativelanguage.Service
	model string
}

// NewLLMService creates a new Gemini LLM service.
func NewLLMService(ctx context.Context, cfg LLMConfig) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("google: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(strings.TrimRight(cfg.Endpoint, "/")+"/"))
	}

	svc, err := generativelanguage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("google: create service: %w", err)
	}

	return &LLMService{
		svc:   svc,
		model: strings.TrimPrefix(cfg.Model, "models/"),
	}, nil
}

// Generate produces text completion from a prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	req := &generativelanguage.GenerateContentRequest{
		Contents:         []*generativelanguage.Content{textContent(roleUser, prompt)},
		GenerationConfig: generationConfig(opts.Temperature, opts.MaxTokens),
	}
	if len(opts.StopWords) > 0 {
		req.GenerationConfig.StopSequences = opts.StopWords
	}
	return s.generate(ctx, req)
}

// Chat conducts a multi-turn conversation. System messages become the
// request's system instruction.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	req := &generativelanguage.GenerateContentRequest{
		GenerationConfig: generationConfig(opts.Temperature, opts.MaxTokens),
	}

	var system []string
	for _, msg := range messages {
		switch msg.Role {
		case driven.RoleSystem:
			system = append(system, msg.Content)
		case driven.RoleAssistant:
			req.Contents = append(req.Contents, textContent(roleModel, msg.Content))
		default:
			req.Contents = append(req.Contents, textContent(roleUser, msg.Content))
		}
	}
	if len(system) > 0 {
		req.SystemInstruction = &generativelanguage.Content{
			Parts: []*generativelanguage.Part{{Text: strings.Join(system, "\n\n")}},
		}
	}

	return s.generate(ctx, req)
}

func (s *LLMService) generate(ctx context.Context, req *generativelanguage.GenerateContentRequest) (string, error) {
	resp, err := s.svc.Models.GenerateContent("models/"+s.model, req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("google: generate content: %w", describe(err))
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("google: prompt blocked: %s", resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("google: no candidates returned")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return b.String(), nil
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping looks up the model, which validates the key without running inference.
func (s *LLMService) Ping(ctx context.Context) error {
	if _, err := s.svc.Models.Get("models/" + s.model).Context(ctx).Do(); err != nil {
		return fmt.Errorf("google: ping failed: %w", describe(err))
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}

func textContent(role, text string) *generativelanguage.Content {
	return &generativelanguage.Content{
		Role:  role,
		Parts: []*generativelanguage.Part{{Text: text}},
	}
}

// generationConfig always sends temperature so that 0 is honoured.
func generationConfig(temperature float64, maxTokens int) *generativelanguage.GenerationConfig {
	return &generativelanguage.GenerationConfig{
		Temperature:     temperature,
		MaxOutputTokens: int64(maxTokens),
		ForceSendFields: []string{"Temperature"},
	}
}

// describe adds a credentials hint to authentication failures.
func describe(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}
	switch gerr.Code {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w (check GOOGLE_API_KEY): %s", err, http.StatusText(gerr.Code))
	default:
		return err
	}
}

package services

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/custodia-labs/ytqa/internal/core/domain"
	"github.com/custodia-labs/ytqa/internal/core/ports/driven"
	"github.com/custodia-labs/ytqa/internal/logger"
)

// TokenEncoding is the tokenizer used to estimate prompt sizes.
const TokenEncoding = "cl100k_base"

// ContextSeparator joins retrieved chunk texts.
const ContextSeparator = "\n\n"

// PromptAssembler renders the grounded QA template.
type PromptAssembler struct {
	prompts driven.PromptStore

	encOnce sync.Once
	enc     *tiktoken.Tiktoken
}

// NewPromptAssembler creates an assembler reading templates from prompts.
func NewPromptAssembler(prompts driven.PromptStore) *PromptAssembler {
	return &PromptAssembler{prompts: prompts}
}

// JoinContext joins chunk texts in retrieval order.
func JoinContext(chunks []domain.Chunk) string {
	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = c.Content
	}
	return strings.Join(parts, ContextSeparator)
}

// Assemble places context into the system instruction and the query into
// the user turn.
func (a *PromptAssembler) Assemble(context, query string) (domain.PromptRequest, error) {
	template, err := a.prompts.Load(driven.PromptAnswerSystem)
	if err != nil {
		return domain.PromptRequest{}, fmt.Errorf("load answer prompt: %w", err)
	}

	req := domain.PromptRequest{
		System: fillContext(template, context),
		User:   query,
	}
	req.Tokens = a.CountTokens(req.System) + a.CountTokens(req.User)
	logger.Debug("Prompt: assembled %d context chars, ~%d tokens", len(context), req.Tokens)
	return req, nil
}

// fillContext substitutes context for the placeholder. A template without
// one gets the context appended so answers stay grounded.
func fillContext(template, context string) string {
	if !strings.Contains(template, driven.ContextPlaceholder) {
		logger.Warn("Prompt: %s has no %s placeholder; appending context", driven.PromptAnswerSystem, driven.ContextPlaceholder)
		return template + "\n\n<context>" + context + "</context>"
	}
	return strings.ReplaceAll(template, driven.ContextPlaceholder, context)
}

// CountTokens returns the cl100k_base token count of text, or 0 when the
// encoding cannot be loaded.
func (a *PromptAssembler) CountTokens(text string) int {
	a.encOnce.Do(func() {
		enc, err := tiktoken.GetEncoding(TokenEncoding)
		if err != nil {
			logger.Debug("Prompt: token encoding unavailable: %v", err)
			return
		}
		a.enc = enc
	})
	if a.enc == nil || text == "" {
		return 0
	}
	return len(a.enc.Encode(text, nil, nil))
}

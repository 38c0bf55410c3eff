package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/ytqa/internal/core/domain"
	"github.com/custodia-labs/ytqa/internal/core/ports/driven"
	"github.com/custodia-labs/ytqa/internal/logger"
)

// TranscriptConfig configures TranscriptService.
type TranscriptConfig struct {
	// Languages is the priority-ordered list of caption languages.
	Languages []string

	// Translate enables the translation step.
	Translate bool

	// TargetLanguage is the language every stored transcript should be in.
	TargetLanguage string

	// Temperature is passed to the model for translation.
	Temperature float64
}

// DefaultTranscriptConfig returns the transcript defaults.
func DefaultTranscriptConfig() TranscriptConfig {
	d := domain.DefaultAppSettings()
	return TranscriptConfig{
		Languages:      d.Transcript.Languages,
		Translate:      d.Transcript.Translate,
		TargetLanguage: d.Transcript.TargetLanguage,
		Temperature:    d.Generation.Temperature,
	}
}

// TranscriptService loads transcripts, consulting the cache before the
// fetcher and translating to the target language when needed.
type TranscriptService struct {
	fetcher driven.TranscriptFetcher
	cache   driven.TranscriptStore
	archive driven.TranscriptArchive
	llm     driven.LLMService
	prompts driven.PromptStore
	cfg     TranscriptConfig
}

// NewTranscriptService creates a transcript service.
// cache, archive and llm may be nil. Without llm no translation happens.
func NewTranscriptService(
	fetcher driven.TranscriptFetcher,
	cache driven.TranscriptStore,
	archive driven.TranscriptArchive,
	llm driven.LLMService,
	prompts driven.PromptStore,
	cfg TranscriptConfig,
) *TranscriptService {
	if len(cfg.Languages) == 0 {
		cfg.Languages = DefaultTranscriptConfig().Languages
	}
	if cfg.TargetLanguage == "" {
		cfg.TargetLanguage = DefaultTranscriptConfig().TargetLanguage
	}
	return &TranscriptService{
		fetcher: fetcher,
		cache:   cache,
		archive: archive,
		llm:     llm,
		prompts: prompts,
		cfg:     cfg,
	}
}

// Load returns the transcript for videoID.
func (s *TranscriptService) Load(ctx context.Context, videoID domain.VideoRef) (*domain.Transcript, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, videoID)
		switch {
		case err == nil:
			logger.Debug("Transcript: cache hit for %s (%d chars)", videoID, cached.Length())
			return cached, nil
		case !errors.Is(err, domain.ErrNotFound):
			logger.Warn("Transcript: cache read for %s failed: %v", videoID, err)
		}
	}

	logger.Debug("Transcript: fetching %s languages=%v", videoID, s.cfg.Languages)
	transcript, err := s.fetcher.Fetch(ctx, videoID, s.cfg.Languages)
	if err != nil {
		return nil, err
	}
	logger.Debug("Transcript: fetched %s language=%s (%d chars)", videoID, transcript.Language, transcript.Length())

	if s.needsTranslation(transcript) {
		transcript, err = s.translate(ctx, transcript)
		if err != nil {
			return nil, err
		}
	}

	if s.archive != nil {
		if err := s.archive.Put(ctx, transcript); err != nil {
			logger.Warn("Transcript: archive %s failed: %v", videoID, err)
		}
	}

	if s.cache != nil {
		if err := s.cache.Save(ctx, transcript); err != nil {
			logger.Warn("Transcript: cache write for %s failed: %v", videoID, err)
		}
	}

	return transcript, nil
}

// needsTranslation compares base language codes so "en-GB" counts as "en".
// An unknown track language is translated; the prompt returns English text
// unchanged.
func (s *TranscriptService) needsTranslation(t *domain.Transcript) bool {
	if !s.cfg.Translate || s.llm == nil || t.Content == "" {
		return false
	}
	return baseLanguage(t.Language) != baseLanguage(s.cfg.TargetLanguage)
}

func (s *TranscriptService) translate(ctx context.Context, t *domain.Transcript) (*domain.Transcript, error) {
	system, err := s.prompts.Load(driven.PromptTranslateSystem)
	if err != nil {
		return nil, fmt.Errorf("load translation prompt: %w", err)
	}

	logger.Debug("Transcript: translating %s from %q to %q", t.VideoID, t.Language, s.cfg.TargetLanguage)
	out, err := s.llm.Chat(ctx, []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: system},
		{Role: driven.RoleUser, Content: "<transcript>" + t.Content + "</transcript>"},
	}, driven.ChatOptions{Temperature: s.cfg.Temperature})
	if err != nil {
		return nil, fmt.Errorf("%w: translate transcript: %v", domain.ErrGenerationFailed, err)
	}

	out = strings.TrimSpace(stripThinking(out, defaultThinkEndMarker))
	if out == "" {
		return nil, fmt.Errorf("%w: translation returned no text", domain.ErrGenerationFailed)
	}

	translated := domain.NewTranscript(t.VideoID, out, s.cfg.TargetLanguage)
	translated.Translated = true
	logger.Debug("Transcript: translation done (%d chars)", translated.Length())
	return translated, nil
}

func baseLanguage(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexAny(code, "-_"); i >= 0 {
		code = code[:i]
	}
	return code
}

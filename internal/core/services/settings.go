package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/ytqa/internal/core/domain"
	"github.com/custodia-labs/ytqa/internal/core/ports/driven"
	"github.com/custodia-labs/ytqa/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyVectorBackend      = "vector.backend"
	KeyVectorDir          = "vector.dir"
	KeyVectorCollection   = "vector.collection"
	KeyVectorK            = "vector.k"
	KeyVectorDatabaseURL  = "vector.database_url"
	KeyLanguages          = "transcript.languages"
	KeyTranslate          = "transcript.translate"
	KeyTargetLanguage     = "transcript.target_language"
	KeyRatePerSecond      = "transcript.rate_per_second"
	KeyBurst              = "transcript.burst"
	KeyTemperature        = "llm.temperature"
	KeyThinkEndMarker     = "llm.think_end_marker"
	KeyMaxTokens          = "llm.max_tokens"
	KeyOutputPath         = "output.path"
	KeyOutputEncoding     = "output.encoding"
	KeyArchiveBucket      = "archive.bucket"
	KeyArchiveRegion      = "archive.region"
	KeyArchiveEndpoint    = "archive.endpoint"
	KeyArchivePrefix      = "archive.prefix"
	KeyServerAddr         = "server.addr"
	KeyServerReadTimeout  = "server.read_timeout"
	KeyServerWriteTimeout = "server.write_timeout"
	KeyProcessors         = "pipeline.processors"
	KeyPromptDir          = "prompts.dir"
)

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
	kindBool
	kindList
	kindDuration
)

// settingKinds lists every supported key and how its raw value is parsed.
var settingKinds = map[string]valueKind{
	KeyVectorBackend:      kindString,
	KeyVectorDir:          kindString,
	KeyVectorCollection:   kindString,
	KeyVectorK:            kindInt,
	KeyVectorDatabaseURL:  kindString,
	KeyLanguages:          kindList,
	KeyTranslate:          kindBool,
	KeyTargetLanguage:     kindString,
	KeyRatePerSecond:      kindFloat,
	KeyBurst:              kindInt,
	KeyTemperature:        kindFloat,
	KeyThinkEndMarker:     kindString,
	KeyMaxTokens:          kindInt,
	KeyOutputPath:         kindString,
	KeyOutputEncoding:     kindString,
	KeyArchiveBucket:      kindString,
	KeyArchiveRegion:      kindString,
	KeyArchiveEndpoint:    kindString,
	KeyArchivePrefix:      kindString,
	KeyServerAddr:         kindString,
	KeyServerReadTimeout:  kindDuration,
	KeyServerWriteTimeout: kindDuration,
	KeyProcessors:         kindList,
	KeyPromptDir:          kindString,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	providers   *ProviderRegistry
}

// NewSettingsService creates a new settings service.
// aiValidator and providers are only needed by CheckProviders and may be nil.
func NewSettingsService(
	configStore driven.ConfigStore,
	aiValidator driven.AIConfigValidator,
	providers *ProviderRegistry,
) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		providers:   providers,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	d := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Vector: domain.VectorSettings{
			Backend:     s.getBackend(d.Vector.Backend),
			Dir:         s.getString(KeyVectorDir, d.Vector.Dir),
			Collection:  s.getString(KeyVectorCollection, d.Vector.Collection),
			K:           s.getInt(KeyVectorK, d.Vector.K),
			DatabaseURL: s.configStore.GetString(KeyVectorDatabaseURL),
		},
		Transcript: domain.TranscriptSettings{
			Languages:      s.getList(KeyLanguages, d.Transcript.Languages),
			Translate:      s.getBool(KeyTranslate, d.Transcript.Translate),
			TargetLanguage: s.getString(KeyTargetLanguage, d.Transcript.TargetLanguage),
			RatePerSecond:  s.getFloat(KeyRatePerSecond, d.Transcript.RatePerSecond),
			Burst:          s.getInt(KeyBurst, d.Transcript.Burst),
		},
		Generation: domain.GenerationSettings{
			Temperature:    s.getFloat(KeyTemperature, d.Generation.Temperature),
			ThinkEndMarker: s.getString(KeyThinkEndMarker, d.Generation.ThinkEndMarker),
			MaxTokens:      s.getInt(KeyMaxTokens, d.Generation.MaxTokens),
		},
		Output: domain.OutputSettings{
			Path:     s.getString(KeyOutputPath, d.Output.Path),
			Encoding: s.getEncoding(d.Output.Encoding),
		},
		Archive: domain.ArchiveSettings{
			Bucket:   s.configStore.GetString(KeyArchiveBucket),
			Region:   s.configStore.GetString(KeyArchiveRegion),
			Endpoint: s.configStore.GetString(KeyArchiveEndpoint),
			Prefix:   s.configStore.GetString(KeyArchivePrefix),
		},
		Server: domain.ServerSettings{
			Addr:         s.getString(KeyServerAddr, d.Server.Addr),
			ReadTimeout:  s.getDuration(KeyServerReadTimeout, d.Server.ReadTimeout),
			WriteTimeout: s.getDuration(KeyServerWriteTimeout, d.Server.WriteTimeout),
		},
		Processors: s.getList(KeyProcessors, d.Processors),
		PromptDir:  s.configStore.GetString(KeyPromptDir),
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := map[string]any{
		KeyVectorBackend:      string(settings.Vector.Backend),
		KeyVectorDir:          settings.Vector.Dir,
		KeyVectorCollection:   settings.Vector.Collection,
		KeyVectorK:            settings.Vector.K,
		KeyVectorDatabaseURL:  settings.Vector.DatabaseURL,
		KeyLanguages:          settings.Transcript.Languages,
		KeyTranslate:          settings.Transcript.Translate,
		KeyTargetLanguage:     settings.Transcript.TargetLanguage,
		KeyRatePerSecond:      settings.Transcript.RatePerSecond,
		KeyBurst:              settings.Transcript.Burst,
		KeyTemperature:        settings.Generation.Temperature,
		KeyThinkEndMarker:     settings.Generation.ThinkEndMarker,
		KeyMaxTokens:          settings.Generation.MaxTokens,
		KeyOutputPath:         settings.Output.Path,
		KeyOutputEncoding:     string(settings.Output.Encoding),
		KeyArchiveBucket:      settings.Archive.Bucket,
		KeyArchiveRegion:      settings.Archive.Region,
		KeyArchiveEndpoint:    settings.Archive.Endpoint,
		KeyArchivePrefix:      settings.Archive.Prefix,
		KeyServerAddr:         settings.Server.Addr,
		KeyServerReadTimeout:  settings.Server.ReadTimeout.String(),
		KeyServerWriteTimeout: settings.Server.WriteTimeout.String(),
		KeyProcessors:         settings.Processors,
		KeyPromptDir:          settings.PromptDir,
	}

	for _, key := range s.Keys() {
		if err := s.configStore.Set(key, values[key]); err != nil {
			return fmt.Errorf("saving %s: %w", key, err)
		}
	}
	return nil
}

// Set parses raw for the type of key and persists it.
func (s *SettingsService) Set(key, raw string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	value, err := parseValue(kind, raw)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
	}

	switch key {
	case KeyVectorBackend:
		if !domain.VectorBackend(raw).IsValid() {
			return fmt.Errorf("%w: unknown vector backend %q", domain.ErrInvalidInput, raw)
		}
	case KeyOutputEncoding:
		if !domain.OutputEncoding(raw).IsValid() {
			return fmt.Errorf("%w: unsupported encoding %q", domain.ErrInvalidInput, raw)
		}
	}

	return s.configStore.Set(key, value)
}

// Unset removes a stored value so the default applies again.
func (s *SettingsService) Unset(key string) error {
	if _, ok := settingKinds[key]; !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	return s.configStore.Unset(key)
}

// Keys lists every supported key in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Value returns the effective value of key formatted for display.
func (s *SettingsService) Value(key string) (string, error) {
	if _, ok := settingKinds[key]; !ok {
		return "", fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	settings, err := s.Get()
	if err != nil {
		return "", err
	}

	values := map[string]string{
		KeyVectorBackend:      string(settings.Vector.Backend),
		KeyVectorDir:          settings.Vector.Dir,
		KeyVectorCollection:   settings.Vector.Collection,
		KeyVectorK:            strconv.Itoa(settings.Vector.K),
		KeyVectorDatabaseURL:  settings.Vector.DatabaseURL,
		KeyLanguages:          strings.Join(settings.Transcript.Languages, ","),
		KeyTranslate:          strconv.FormatBool(settings.Transcript.Translate),
		KeyTargetLanguage:     settings.Transcript.TargetLanguage,
		KeyRatePerSecond:      strconv.FormatFloat(settings.Transcript.RatePerSecond, 'g', -1, 64),
		KeyBurst:              strconv.Itoa(settings.Transcript.Burst),
		KeyTemperature:        strconv.FormatFloat(settings.Generation.Temperature, 'g', -1, 64),
		KeyThinkEndMarker:     settings.Generation.ThinkEndMarker,
		KeyMaxTokens:          strconv.Itoa(settings.Generation.MaxTokens),
		KeyOutputPath:         settings.Output.Path,
		KeyOutputEncoding:     string(settings.Output.Encoding),
		KeyArchiveBucket:      settings.Archive.Bucket,
		KeyArchiveRegion:      settings.Archive.Region,
		KeyArchiveEndpoint:    settings.Archive.Endpoint,
		KeyArchivePrefix:      settings.Archive.Prefix,
		KeyServerAddr:         settings.Server.Addr,
		KeyServerReadTimeout:  settings.Server.ReadTimeout.String(),
		KeyServerWriteTimeout: settings.Server.WriteTimeout.String(),
		KeyProcessors:         strings.Join(settings.Processors, ","),
		KeyPromptDir:          settings.PromptDir,
	}
	return values[key], nil
}

// CheckProviders pings every configured provider candidate.
func (s *SettingsService) CheckProviders(ctx context.Context) []domain.ProviderStatus {
	if s.providers == nil {
		return nil
	}

	var statuses []domain.ProviderStatus

	selectedLLM, llmErr := s.providers.SelectLLM()
	for _, c := range s.providers.LLMCandidates() {
		status := domain.ProviderStatus{
			Kind:       "llm",
			Provider:   c.Provider,
			Model:      c.Model,
			Configured: c.IsConfigured(),
			Selected:   llmErr == nil && c.Provider == selectedLLM.Provider,
		}
		if status.Configured && s.aiValidator != nil {
			if err := s.aiValidator.ValidateLLM(ctx, c); err != nil {
				status.Error = err.Error()
			}
		}
		statuses = append(statuses, status)
	}

	selectedEmb, embErr := s.providers.SelectEmbedding()
	for _, c := range s.providers.EmbeddingCandidates() {
		status := domain.ProviderStatus{
			Kind:       "embedding",
			Provider:   c.Provider,
			Model:      c.Model,
			Configured: c.IsConfigured(),
			Selected:   embErr == nil && c.Provider == selectedEmb.Provider,
		}
		if status.Configured && s.aiValidator != nil {
			if err := s.aiValidator.ValidateEmbedding(ctx, c); err != nil {
				status.Error = err.Error()
			}
		}
		statuses = append(statuses, status)
	}

	return statuses
}

func parseValue(kind valueKind, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	switch kind {
	case kindInt:
		return strconv.Atoi(raw)
	case kindFloat:
		return strconv.ParseFloat(raw, 64)
	case kindBool:
		return strconv.ParseBool(raw)
	case kindDuration:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, err
		}
		return d.String(), nil
	case kindList:
		var items []string
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		if len(items) == 0 {
			return nil, fmt.Errorf("empty list")
		}
		return items, nil
	default:
		return raw, nil
	}
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	if val := s.configStore.GetInt(key); val != 0 {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val, ok := s.configStore.Get(key)
	if !ok {
		return defaultVal
	}
	switch val.(type) {
	case float64, int64, int:
		return s.configStore.GetFloat(key)
	default:
		return defaultVal
	}
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	val, ok := s.configStore.Get(key)
	if !ok {
		return defaultVal
	}
	if b, ok := val.(bool); ok {
		return b
	}
	return defaultVal
}

func (s *SettingsService) getList(key string, defaultVal []string) []string {
	if val := s.configStore.GetStringSlice(key); len(val) > 0 {
		return val
	}
	return append([]string(nil), defaultVal...)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	if d, err := time.ParseDuration(s.configStore.GetString(key)); err == nil {
		return d
	}
	return defaultVal
}

func (s *SettingsService) getBackend(defaultVal domain.VectorBackend) domain.VectorBackend {
	if b := domain.VectorBackend(s.configStore.GetString(KeyVectorBackend)); b.IsValid() {
		return b
	}
	return defaultVal
}

func (s *SettingsService) getEncoding(defaultVal domain.OutputEncoding) domain.OutputEncoding {
	if e := domain.OutputEncoding(s.configStore.GetString(KeyOutputEncoding)); e.IsValid() {
		return e
	}
	return defaultVal
}

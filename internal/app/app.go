// Package app wires adapters and services into a running ytqa instance.
//
// Build is cheap: it reads configuration and never touches a provider, so
// commands such as `ytqa config set` work without credentials. The question
// pipeline and its clients are created on first use and closed by Close.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/custodia-labs/ytqa/internal/adapters/driven/ai"
	s3archive "github.com/custodia-labs/ytqa/internal/adapters/driven/archive/s3"
	"github.com/custodia-labs/ytqa/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ytqa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ytqa/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/ytqa/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/ytqa/internal/adapters/driven/transcript/youtube"
	"github.com/custodia-labs/ytqa/internal/config"
	"github.com/custodia-labs/ytqa/internal/core/domain"
	"github.com/custodia-labs/ytqa/internal/core/ports/driven"
	"github.com/custodia-labs/ytqa/internal/core/services"
	"github.com/custodia-labs/ytqa/internal/logger"
	"github.com/custodia-labs/ytqa/internal/postprocessors"
)

// Options configures Build.
type Options struct {
	// ConfigPath is the TOML settings file; ./ytqa.toml when empty.
	ConfigPath string

	// EnvFiles are loaded before reading the environment; .env when empty.
	EnvFiles []string

	// Getenv overrides os.Getenv, mainly for tests.
	Getenv config.Getenv
}

// App holds every long-lived component.
type App struct {
	Settings  *services.SettingsService
	Providers *services.ProviderRegistry
	Prompts   *file.PromptStore

	cfg    *config.Config
	cfgErr error

	mu       sync.Mutex
	pipeline *services.Pipeline
	closers  []io.Closer
}

// Build reads configuration and prepares the settings and provider services.
// Invalid settings do not fail Build; they are reported by Pipeline.
func Build(opts Options) (*App, error) {
	if err := config.LoadDotEnv(opts.EnvFiles...); err != nil {
		return nil, err
	}

	store, err := file.NewConfigStore(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", opts.ConfigPath, err)
	}

	bootstrap := services.NewSettingsService(store, nil, nil)
	settings, err := bootstrap.Get()
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	cfg, cfgErr := config.Resolve(*settings, opts.Getenv)
	keys := config.ProviderKeysFromEnv(getenvOrDefault(opts.Getenv))
	if cfg != nil {
		keys = cfg.Keys
	}

	providers := services.NewProviderRegistry(keys)

	prompts, err := file.NewPromptStore(settings.PromptDir)
	if err != nil {
		return nil, fmt.Errorf("prompt store: %w", err)
	}

	return &App{
		Settings:  services.NewSettingsService(store, ai.NewConfigValidator(), providers),
		Providers: providers,
		Prompts:   prompts,
		cfg:       cfg,
		cfgErr:    cfgErr,
	}, nil
}

// Config returns the resolved configuration or the validation error.
func (a *App) Config() (*config.Config, error) {
	if a.cfgErr != nil {
		return nil, a.cfgErr
	}
	return a.cfg, nil
}

// Pipeline returns the question pipeline, creating provider clients and
// storage on the first call.
func (a *App) Pipeline(ctx context.Context) (*services.Pipeline, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.pipeline != nil {
		return a.pipeline, nil
	}

	cfg, err := a.Config()
	if err != nil {
		return nil, err
	}

	p, err := a.buildPipeline(ctx, cfg)
	if err != nil {
		_ = a.closeAll()
		return nil, err
	}
	a.pipeline = p
	return p, nil
}

func (a *App) buildPipeline(ctx context.Context, cfg *config.Config) (*services.Pipeline, error) {
	s := cfg.Settings

	llmSettings, err := a.Providers.SelectLLM()
	if err != nil {
		return nil, err
	}
	embeddingSettings, err := a.Providers.SelectEmbedding()
	if err != nil {
		return nil, err
	}

	clients, err := ai.Init(ctx, llmSettings, embeddingSettings)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, clients)

	vectors, cache, err := a.openStorage(ctx, s.Vector)
	if err != nil {
		return nil, err
	}

	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)
	processors, err := registry.BuildPipeline(s.Processors, nil)
	if err != nil {
		return nil, fmt.Errorf("build processors: %w", err)
	}

	var archive driven.TranscriptArchive
	if s.Archive.Enabled() {
		arch, err := s3archive.NewArchive(ctx, s3archive.Config{
			Bucket:    s.Archive.Bucket,
			Region:    s.Archive.Region,
			Endpoint:  s.Archive.Endpoint,
			Prefix:    s.Archive.Prefix,
			AccessKey: cfg.AWS.AccessKey,
			SecretKey: cfg.AWS.SecretKey,
		})
		if err != nil {
			return nil, err
		}
		archive = arch
		logger.Info("Archive: s3://%s", s.Archive.Bucket)
	}

	var metadata driven.MetadataProvider
	if cfg.Keys.YouTubeAPIKey != "" {
		meta, err := youtube.NewMetadataService(ctx, youtube.MetadataConfig{APIKey: cfg.Keys.YouTubeAPIKey})
		if err != nil {
			return nil, err
		}
		metadata = meta
	}

	fetcher := youtube.NewFetcher(youtube.Config{
		RatePerSecond: s.Transcript.RatePerSecond,
		Burst:         s.Transcript.Burst,
	})

	transcripts := services.NewTranscriptService(fetcher, cache, archive, clients.LLMService, a.Prompts,
		services.TranscriptConfig{
			Languages:      s.Transcript.Languages,
			Translate:      s.Transcript.Translate,
			TargetLanguage: s.Transcript.TargetLanguage,
			Temperature:    s.Generation.Temperature,
		})

	return services.NewPipeline(services.PipelineDeps{
		Index:       services.NewIndex(vectors, clients.EmbeddingService),
		Transcripts: transcripts,
		Processors:  processors,
		Assembler:   services.NewPromptAssembler(a.Prompts),
		Generator: services.NewAnswerGenerator(clients.LLMService, services.AnswerConfig{
			Temperature:    s.Generation.Temperature,
			ThinkEndMarker: s.Generation.ThinkEndMarker,
			MaxTokens:      s.Generation.MaxTokens,
		}),
		Metadata: metadata,
		K:        s.Vector.K,
	}), nil
}

// openStorage opens the vector collection and the transcript cache.
// The cache lives in SQLite for every durable backend.
func (a *App) openStorage(ctx context.Context, v domain.VectorSettings) (driven.VectorIndex, driven.TranscriptStore, error) {
	if v.Backend == domain.VectorBackendMemory {
		logger.Info("Vector: in-memory collection %s", v.Collection)
		return memory.NewVectorIndex(), memory.NewTranscriptStore(), nil
	}

	store, err := sqlite.NewStore(v.Dir, v.Collection)
	if err != nil {
		return nil, nil, fmt.Errorf("open sqlite store: %w", err)
	}
	a.closers = append(a.closers, store)

	if v.Backend == domain.VectorBackendPostgres {
		pg, err := postgres.NewVectorIndex(ctx, v.DatabaseURL, v.Collection)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres collection: %w", err)
		}
		a.closers = append(a.closers, pg)
		logger.Info("Vector: postgres collection %s", v.Collection)
		return pg, store.TranscriptStore(), nil
	}

	logger.Info("Vector: sqlite collection %s", store.Path())
	return store.VectorIndex(), store.TranscriptStore(), nil
}

// Close releases every client and store in reverse creation order.
func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.closeAll()
}

func (a *App) closeAll() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i].Close())
	}
	a.closers = nil
	a.pipeline = nil
	return errors.Join(errs...)
}

func getenvOrDefault(getenv config.Getenv) config.Getenv {
	if getenv != nil {
		return getenv
	}
	return os.Getenv
}

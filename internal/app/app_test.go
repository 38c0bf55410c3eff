package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ytqa/internal/config"
	"github.com/custodia-labs/ytqa/internal/core/domain"
)

func buildTestApp(t *testing.T, toml string, env map[string]string) *App {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, "ytqa.toml")
	if toml != "" {
		require.NoError(t, os.WriteFile(configPath, []byte(toml), 0o600))
	}
	env[config.EnvVectorBackend] = "memory"

	a, err := Build(Options{
		ConfigPath: configPath,
		EnvFiles:   []string{filepath.Join(dir, ".env")},
		Getenv:     func(key string) string { return env[key] },
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestBuild_PipelineIsCreatedOnce(t *testing.T) {
	a := buildTestApp(t, "", map[string]string{config.EnvOllamaHost: "localhost:11434"})

	p1, err := a.Pipeline(context.Background())
	require.NoError(t, err)
	p2, err := a.Pipeline(context.Background())
	require.NoError(t, err)

	assert.Same(t, p1, p2)
	assert.NoError(t, a.Close())
}

func TestBuild_NoProvider(t *testing.T) {
	a := buildTestApp(t, "", map[string]string{})

	_, err := a.Pipeline(context.Background())

	assert.True(t, errors.Is(err, domain.ErrNoProvider))
}

func TestBuild_InvalidSettingsOnlyFailPipeline(t *testing.T) {
	a := buildTestApp(t, "[vector]\nk = 500\n", map[string]string{config.EnvOllamaHost: "localhost:11434"})

	settings, err := a.Settings.Get()
	require.NoError(t, err)
	assert.Equal(t, 500, settings.Vector.K)

	_, err = a.Pipeline(context.Background())
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestBuild_ProviderSelection(t *testing.T) {
	a := buildTestApp(t, "", map[string]string{
		config.EnvOpenAIAPIKey:     "sk-test",
		config.EnvHuggingFaceToken: "hf_test",
	})

	llm, err := a.Providers.SelectLLM()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderHuggingFace, llm.Provider)

	embedding, err := a.Providers.SelectEmbedding()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, embedding.Provider)
}

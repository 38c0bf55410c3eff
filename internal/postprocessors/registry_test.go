package postprocessors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ytqa/internal/core/domain"
	"github.com/custodia-labs/ytqa/internal/core/ports/driven"
	"github.com/custodia-labs/ytqa/internal/postprocessors/chunker"
)

func TestRegistry_RegisterAndBuild(t *testing.T) {
	r := NewRegistry()
	r.Register("test", func(cfg map[string]any) (driven.PostProcessor, error) {
		name := "default"
		if n, ok := cfg["name"].(string); ok {
			name = n
		}
		return &mockProcessor{name: name}, nil
	})

	assert.True(t, r.Has("test"))
	assert.False(t, r.Has("missing"))

	proc, err := r.Build("test", map[string]any{"name": "custom"})
	require.NoError(t, err)
	assert.Equal(t, "custom", proc.Name())

	_, err = r.Build("missing", nil)
	assert.Error(t, err)
}

func TestRegisterDefaults(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	assert.Equal(t, []string{"chunker", "cleaner"}, r.Names())
}

func TestRegistry_BuildPipeline(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	t.Run("default order", func(t *testing.T) {
		p, err := r.BuildPipeline(DefaultProcessors, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"cleaner", "chunker"}, p.Names())
	})

	t.Run("chunker config applied", func(t *testing.T) {
		p, err := r.BuildPipeline([]string{"chunker"}, map[string]map[string]any{
			"chunker": {"chunk_size": int64(10), "overlap": int64(0)},
		})
		require.NoError(t, err)

		tr := domain.NewTranscript("dQw4w9WgXcQ", "aaaa bbbb cccc dddd", "en")
		chunks, err := p.Process(context.Background(), tr)
		require.NoError(t, err)
		require.Len(t, chunks, 2)
		assert.Equal(t, "aaaa bbbb", chunks[0].Content)
		assert.Equal(t, "cccc dddd", chunks[1].Content)
		assert.Equal(t, chunker.ChunkID("dQw4w9WgXcQ", 1), chunks[1].ID)
	})

	t.Run("unknown processor", func(t *testing.T) {
		_, err := r.BuildPipeline([]string{"stemmer"}, nil)
		assert.Error(t, err)
	})

	t.Run("empty list", func(t *testing.T) {
		_, err := r.BuildPipeline(nil, nil)
		assert.Error(t, err)
	})
}

func TestGetIntFromConfig(t *testing.T) {
	cfg := map[string]any{"a": 1, "b": int64(2), "c": 3.0, "d": "4"}

	assert.Equal(t, 1, getIntFromConfig(cfg, "a"))
	assert.Equal(t, 2, getIntFromConfig(cfg, "b"))
	assert.Equal(t, 3, getIntFromConfig(cfg, "c"))
	assert.Equal(t, 0, getIntFromConfig(cfg, "d"))
	assert.Equal(t, 0, getIntFromConfig(cfg, "missing"))
}

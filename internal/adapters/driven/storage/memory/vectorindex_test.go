package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ytqa/internal/core/domain"
)

func entry(id string, video domain.VideoRef, vec ...float32) domain.IndexedEntry {
	return domain.IndexedEntry{
		Chunk:     domain.Chunk{ID: id, VideoID: video, Content: "content " + id},
		Embedding: vec,
	}
}

func TestVectorIndex_EmptySearch(t *testing.T) {
	v := NewVectorIndex()

	hits, err := v.Search(context.Background(), []float32{1, 0}, 4, domain.Filter{})
	require.NoError(t, err)
	assert.Empty(t, hits)

	dim, err := v.Dimension(context.Background())
	require.NoError(t, err)
	assert.Zero(t, dim)
}

func TestVectorIndex_AddThenSearch(t *testing.T) {
	ctx := context.Background()
	v := NewVectorIndex()

	require.NoError(t, v.Add(ctx, []domain.IndexedEntry{
		entry("a", "dQw4w9WgXcQ", 1, 0, 0),
		entry("b", "dQw4w9WgXcQ", 0, 1, 0),
		entry("c", "dQw4w9WgXcQ", 0.9, 0.1, 0),
		entry("d", "5Y6HSHwhVlY", 1, 0, 0),
	}))

	hits, err := v.Search(ctx, []float32{1, 0, 0}, 2, domain.ForVideo("dQw4w9WgXcQ"))
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "a", hits[0].Chunk.ID)
	assert.Equal(t, "c", hits[1].Chunk.ID)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-6)

	n, err := v.Count(ctx, domain.ForVideo("5Y6HSHwhVlY"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestVectorIndex_ReplacesByChunkID(t *testing.T) {
	ctx := context.Background()
	v := NewVectorIndex()

	require.NoError(t, v.Add(ctx, []domain.IndexedEntry{entry("a", "dQw4w9WgXcQ", 1, 0)}))
	require.NoError(t, v.Add(ctx, []domain.IndexedEntry{entry("a", "dQw4w9WgXcQ", 0, 1)}))

	n, err := v.Count(ctx, domain.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	hits, err := v.Search(ctx, []float32{0, 1}, 1, domain.Filter{})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, hits[0].Similarity, 1e-6)
}

func TestVectorIndex_ReaddReplacesVideoChunks(t *testing.T) {
	ctx := context.Background()
	v := NewVectorIndex()

	require.NoError(t, v.Add(ctx, []domain.IndexedEntry{
		entry("a", "dQw4w9WgXcQ", 1, 0),
		entry("b", "dQw4w9WgXcQ", 1, 0),
		entry("x", "5Y6HSHwhVlY", 1, 0),
		entry("c", "dQw4w9WgXcQ", 1, 0),
	}))
	require.NoError(t, v.Add(ctx, []domain.IndexedEntry{entry("a2", "dQw4w9WgXcQ", 0, 1)}))

	n, err := v.Count(ctx, domain.ForVideo("dQw4w9WgXcQ"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	hits, err := v.Search(ctx, []float32{1, 0}, 4, domain.Filter{})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "x", hits[0].Chunk.ID)
	assert.Equal(t, "a2", hits[1].Chunk.ID)
}

func TestVectorIndex_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	v := NewVectorIndex()
	require.NoError(t, v.Add(ctx, []domain.IndexedEntry{entry("a", "dQw4w9WgXcQ", 1, 0, 0)}))

	_, err := v.Search(ctx, []float32{1, 0}, 4, domain.Filter{})
	require.ErrorIs(t, err, domain.ErrDimensionMismatch)
	var dm *domain.DimensionMismatchError
	require.True(t, errors.As(err, &dm))
	assert.Equal(t, 3, dm.Expected)
	assert.Equal(t, 2, dm.Got)

	err = v.Add(ctx, []domain.IndexedEntry{entry("b", "dQw4w9WgXcQ", 1, 0)})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestVectorIndex_Reset(t *testing.T) {
	ctx := context.Background()
	v := NewVectorIndex()
	require.NoError(t, v.Add(ctx, []domain.IndexedEntry{entry("a", "dQw4w9WgXcQ", 1, 0, 0)}))

	require.NoError(t, v.Reset(ctx))

	n, err := v.Count(ctx, domain.Filter{})
	require.NoError(t, err)
	assert.Zero(t, n)

	// A fresh collection accepts a new dimension.
	require.NoError(t, v.Add(ctx, []domain.IndexedEntry{entry("b", "dQw4w9WgXcQ", 1, 0)}))
	dim, err := v.Dimension(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, dim)
	assert.NoError(t, v.Close())
}

func TestTranscriptStore(t *testing.T) {
	ctx := context.Background()
	s := NewTranscriptStore()

	_, err := s.Get(ctx, "dQw4w9WgXcQ")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, s.Save(ctx, domain.NewTranscript("dQw4w9WgXcQ", "hello", "en")))
	got, err := s.Get(ctx, "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Content)
}

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ytqa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ytqa/internal/core/domain"
	"github.com/custodia-labs/ytqa/internal/core/ports/driven"
)

func testChunks(video domain.VideoRef, texts ...string) []domain.Chunk {
	chunks := make([]domain.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = domain.Chunk{
			ID:       string(video) + "-" + string(rune('a'+i)),
			VideoID:  video,
			Content:  text,
			Position: i,
		}
	}
	return chunks
}

func TestIndex_QueryEmptyCollection(t *testing.T) {
	idx := NewIndex(memory.NewVectorIndex(), &fakeEmbedder{dim: 32})

	chunks, err := idx.Query(context.Background(), "what is this about", 4, domain.ForVideo("dQw4w9WgXcQ"))

	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestIndex_InsertThenQuery(t *testing.T) {
	ctx := context.Background()
	idx := NewIndex(memory.NewVectorIndex(), &fakeEmbedder{dim: 64})

	require.NoError(t, idx.Insert(ctx, testChunks("dQw4w9WgXcQ",
		"the recipe needs flour sugar and butter",
		"the oven should be preheated to 180 degrees",
		"rockets need fuel and oxidiser",
	)))
	require.NoError(t, idx.Insert(ctx, testChunks("5Y6HSHwhVlY", "flour sugar butter flour sugar butter")))

	chunks, err := idx.Query(ctx, "how much flour and sugar", 2, domain.ForVideo("dQw4w9WgXcQ"))

	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "the recipe needs flour sugar and butter", chunks[0].Content)
	for _, c := range chunks {
		assert.Equal(t, domain.VideoRef("dQw4w9WgXcQ"), c.VideoID)
	}

	n, err := idx.Count(ctx, domain.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestIndex_InsertBatches(t *testing.T) {
	embedder := &fakeEmbedder{dim: 8}
	idx := NewIndex(memory.NewVectorIndex(), embedder)
	idx.SetBatchSize(2)

	require.NoError(t, idx.Insert(context.Background(), testChunks("dQw4w9WgXcQ", "a", "b", "c", "d", "e")))

	assert.Equal(t, 3, embedder.calls)
}

func TestIndex_InsertNothing(t *testing.T) {
	embedder := &fakeEmbedder{dim: 8}
	require.NoError(t, NewIndex(memory.NewVectorIndex(), embedder).Insert(context.Background(), nil))
	assert.Zero(t, embedder.calls)
}

func TestIndex_QueryDimensionMismatchResetsOnceAndRetries(t *testing.T) {
	ctx := context.Background()
	base := memory.NewVectorIndex()

	// Populate with vectors from an older 3-dimensional model.
	require.NoError(t, base.Add(ctx, []domain.IndexedEntry{
		{Chunk: domain.Chunk{ID: "old", VideoID: "dQw4w9WgXcQ"}, Embedding: []float32{1, 0, 0}},
	}))

	store := &mismatchIndex{VectorIndex: base}
	idx := NewIndex(store, &fakeEmbedder{dim: 16})

	chunks, err := idx.Query(ctx, "anything", 4, domain.ForVideo("dQw4w9WgXcQ"))

	require.NoError(t, err)
	assert.Empty(t, chunks)
	assert.Equal(t, 1, store.resets)
	assert.Equal(t, 2, store.searches)

	n, err := base.Count(ctx, domain.Filter{})
	require.NoError(t, err)
	assert.Zero(t, n, "old entries must be gone after the reset")
}

func TestIndex_QueryMismatchTwiceFails(t *testing.T) {
	ctx := context.Background()
	store := &alwaysMismatch{}
	idx := NewIndex(store, &fakeEmbedder{dim: 4})

	_, err := idx.Query(ctx, "anything", 4, domain.Filter{})

	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	assert.Equal(t, 2, store.searches)
	assert.Equal(t, 1, store.resets)
}

func TestIndex_InsertDimensionMismatchResets(t *testing.T) {
	ctx := context.Background()
	base := memory.NewVectorIndex()
	store := &mismatchIndex{VectorIndex: base, failAdd: true}
	idx := NewIndex(store, &fakeEmbedder{dim: 16})

	require.NoError(t, idx.Insert(ctx, testChunks("dQw4w9WgXcQ", "hello world")))

	assert.Equal(t, 1, store.resets)
	assert.Equal(t, 2, store.adds)
	n, err := base.Count(ctx, domain.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestIndex_EmbeddingFailure(t *testing.T) {
	idx := NewIndex(memory.NewVectorIndex(), &fakeEmbedder{dim: 4, err: errors.New("quota exceeded")})

	_, err := idx.Query(context.Background(), "q", 4, domain.Filter{})
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)

	err = idx.Insert(context.Background(), testChunks("dQw4w9WgXcQ", "x"))
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestIndex_Reset(t *testing.T) {
	ctx := context.Background()
	idx := NewIndex(memory.NewVectorIndex(), &fakeEmbedder{dim: 8})
	require.NoError(t, idx.Insert(ctx, testChunks("dQw4w9WgXcQ", "a b c")))

	require.NoError(t, idx.Reset(ctx))

	n, err := idx.Count(ctx, domain.Filter{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

// alwaysMismatch reports a dimension mismatch on every search.
type alwaysMismatch struct {
	memory.VectorIndex
	searches int
	resets   int
}

func (a *alwaysMismatch) Search(_ context.Context, q []float32, _ int, _ domain.Filter) ([]driven.VectorHit, error) {
	a.searches++
	return nil, &domain.DimensionMismatchError{Expected: 3072, Got: len(q)}
}

func (a *alwaysMismatch) Reset(_ context.Context) error {
	a.resets++
	return nil
}

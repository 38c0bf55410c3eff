package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ytqa/internal/core/domain"
)

// setupTestStore creates a SQLite store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir(), "")
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func testEntry(id string, video domain.VideoRef, position int, vec ...float32) domain.IndexedEntry {
	return domain.IndexedEntry{
		Chunk: domain.Chunk{
			ID:       id,
			VideoID:  video,
			Content:  "chunk " + id,
			Position: position,
			Metadata: map[string]any{domain.MetaVideoID: string(video), domain.MetaLength: 1234},
		},
		Embedding: vec,
	}
}

func TestNewStore_Defaults(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir, "")
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, "yt_store.db"), store.Path())
	assert.Equal(t, DefaultCollection, store.Collection())
}

func TestNewStore_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewStore(dir, "yt_store")
	require.NoError(t, err)
	require.NoError(t, store.VectorIndex().Add(ctx, []domain.IndexedEntry{testEntry("a", "dQw4w9WgXcQ", 0, 1, 0)}))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir, "yt_store")
	require.NoError(t, err)
	defer reopened.Close()

	n, err := reopened.VectorIndex().Count(ctx, domain.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestVectorIndex_EmptyCollection(t *testing.T) {
	idx := setupTestStore(t).VectorIndex()

	hits, err := idx.Search(context.Background(), []float32{1, 2, 3}, 4, domain.ForVideo("dQw4w9WgXcQ"))
	require.NoError(t, err)
	assert.Empty(t, hits)

	dim, err := idx.Dimension(context.Background())
	require.NoError(t, err)
	assert.Zero(t, dim)
}

func TestVectorIndex_AddThenSearch(t *testing.T) {
	ctx := context.Background()
	idx := setupTestStore(t).VectorIndex()

	require.NoError(t, idx.Add(ctx, []domain.IndexedEntry{
		testEntry("a", "dQw4w9WgXcQ", 0, 1, 0, 0),
		testEntry("b", "dQw4w9WgXcQ", 1, 0, 1, 0),
		testEntry("c", "dQw4w9WgXcQ", 2, 0.8, 0.2, 0),
		testEntry("d", "5Y6HSHwhVlY", 0, 1, 0, 0),
	}))

	hits, err := idx.Search(ctx, []float32{1, 0, 0}, 2, domain.ForVideo("dQw4w9WgXcQ"))
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "a", hits[0].Chunk.ID)
	assert.Equal(t, "c", hits[1].Chunk.ID)
	assert.Equal(t, domain.VideoRef("dQw4w9WgXcQ"), hits[0].Chunk.VideoID)
	assert.Equal(t, "chunk a", hits[0].Chunk.Content)
	assert.Equal(t, 1234, hits[0].Chunk.Metadata[domain.MetaLength])
	assert.Equal(t, "dQw4w9WgXcQ", hits[0].Chunk.Metadata[domain.MetaVideoID])

	all, err := idx.Count(ctx, domain.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 4, all)

	other, err := idx.Search(ctx, []float32{1, 0, 0}, 4, domain.ForVideo("5Y6HSHwhVlY"))
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, "d", other[0].Chunk.ID)
}

func TestVectorIndex_UpsertByChunkID(t *testing.T) {
	ctx := context.Background()
	idx := setupTestStore(t).VectorIndex()

	require.NoError(t, idx.Add(ctx, []domain.IndexedEntry{testEntry("a", "dQw4w9WgXcQ", 0, 1, 0)}))
	require.NoError(t, idx.Add(ctx, []domain.IndexedEntry{testEntry("a", "dQw4w9WgXcQ", 0, 0, 1)}))

	n, err := idx.Count(ctx, domain.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestVectorIndex_ReaddReplacesVideoChunks(t *testing.T) {
	ctx := context.Background()
	idx := setupTestStore(t).VectorIndex()

	require.NoError(t, idx.Add(ctx, []domain.IndexedEntry{
		testEntry("a", "dQw4w9WgXcQ", 0, 1, 0),
		testEntry("b", "dQw4w9WgXcQ", 1, 1, 0),
		testEntry("c", "dQw4w9WgXcQ", 2, 1, 0),
		testEntry("x", "5Y6HSHwhVlY", 0, 1, 0),
	}))
	require.NoError(t, idx.Add(ctx, []domain.IndexedEntry{testEntry("a2", "dQw4w9WgXcQ", 0, 0, 1)}))

	n, err := idx.Count(ctx, domain.ForVideo("dQw4w9WgXcQ"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = idx.Count(ctx, domain.ForVideo("5Y6HSHwhVlY"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	hits, err := idx.Search(ctx, []float32{1, 0}, 4, domain.ForVideo("dQw4w9WgXcQ"))
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "a2", hits[0].Chunk.ID)
}

func TestVectorIndex_DimensionMismatch(t *testing.T) {
	ctx := context.Background()
	idx := setupTestStore(t).VectorIndex()
	require.NoError(t, idx.Add(ctx, []domain.IndexedEntry{testEntry("a", "dQw4w9WgXcQ", 0, 1, 0, 0)}))

	_, err := idx.Search(ctx, []float32{1, 0}, 4, domain.Filter{})
	require.ErrorIs(t, err, domain.ErrDimensionMismatch)
	assert.EqualError(t, err, "collection expecting embedding with dimension of 3, got 2")

	err = idx.Add(ctx, []domain.IndexedEntry{testEntry("b", "dQw4w9WgXcQ", 1, 1, 0)})
	require.ErrorIs(t, err, domain.ErrDimensionMismatch)

	// The failed batch must not be partially stored.
	n, err := idx.Count(ctx, domain.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestVectorIndex_EmptyEmbeddingRejected(t *testing.T) {
	err := setupTestStore(t).VectorIndex().Add(context.Background(),
		[]domain.IndexedEntry{testEntry("a", "dQw4w9WgXcQ", 0)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestVectorIndex_Reset(t *testing.T) {
	ctx := context.Background()
	idx := setupTestStore(t).VectorIndex()
	require.NoError(t, idx.Add(ctx, []domain.IndexedEntry{testEntry("a", "dQw4w9WgXcQ", 0, 1, 0, 0)}))

	require.NoError(t, idx.Reset(ctx))

	n, err := idx.Count(ctx, domain.Filter{})
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, idx.Add(ctx, []domain.IndexedEntry{testEntry("b", "dQw4w9WgXcQ", 0, 1, 0)}))
	dim, err := idx.Dimension(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, dim)
}

func TestTranscriptStore_SaveGet(t *testing.T) {
	ctx := context.Background()
	ts := setupTestStore(t).TranscriptStore()

	_, err := ts.Get(ctx, "dQw4w9WgXcQ")
	require.ErrorIs(t, err, domain.ErrNotFound)

	tr := domain.NewTranscript("dQw4w9WgXcQ", "नमस्ते दुनिया", "hi")
	require.NoError(t, ts.Save(ctx, tr))

	got, err := ts.Get(ctx, "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, tr.Content, got.Content)
	assert.Equal(t, "hi", got.Language)
	assert.False(t, got.Translated)
	assert.Equal(t, tr.Length(), got.Metadata[domain.MetaLength])

	tr.Content = "hello world"
	tr.Language = "en"
	tr.Translated = true
	require.NoError(t, ts.Save(ctx, tr))

	got, err = ts.Get(ctx, "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "hello world", got.Content)
	assert.True(t, got.Translated)
}

func TestFloat32Conversion(t *testing.T) {
	in := []float32{0.25, -1.5, 3.1415927}
	assert.Equal(t, in, bytesToFloat32Slice(float32SliceToBytes(in)))
	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}

func TestDecodeMetadata(t *testing.T) {
	m, err := decodeMetadata(`{"length": 12, "score": 0.5, "video_id": "dQw4w9WgXcQ"}`)
	require.NoError(t, err)
	assert.Equal(t, 12, m["length"])
	assert.InDelta(t, 0.5, m["score"], 1e-9)
	assert.Equal(t, "dQw4w9WgXcQ", m["video_id"])

	m, err = decodeMetadata("null")
	require.NoError(t, err)
	assert.Empty(t, m)

	_, err = decodeMetadata("{")
	assert.Error(t, err)
}

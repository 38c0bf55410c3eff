package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/ytqa/internal/adapters/driven/storage/similarity"
	"github.com/custodia-labs/ytqa/internal/core/domain"
	"github.com/custodia-labs/ytqa/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is an in-memory implementation of driven.VectorIndex.
// Entries are kept in insertion order. Adding a video replaces its chunks.
type VectorIndex struct {
	mu        sync.RWMutex
	dimension int
	entries   []domain.IndexedEntry
	byID      map[string]int
}

// NewVectorIndex creates an empty in-memory collection.
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{byID: make(map[string]int)}
}

// Add stores entries, dropping earlier chunks of the same videos.
func (v *VectorIndex) Add(_ context.Context, entries []domain.IndexedEntry) error {
	if len(entries) == 0 {
		return nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	dim := v.dimension
	if dim == 0 {
		dim = len(entries[0].Embedding)
	}
	for _, e := range entries {
		if len(e.Embedding) != dim {
			return &domain.DimensionMismatchError{Expected: dim, Got: len(e.Embedding)}
		}
	}
	v.dimension = dim

	replaced := make(map[domain.VideoRef]bool)
	for _, id := range domain.EntryVideos(entries) {
		replaced[id] = true
	}
	kept := v.entries[:0]
	for _, e := range v.entries {
		if !replaced[e.Chunk.VideoID] {
			kept = append(kept, e)
		}
	}
	v.entries = kept
	v.byID = make(map[string]int, len(v.entries)+len(entries))
	for i, e := range v.entries {
		v.byID[e.Chunk.ID] = i
	}

	for _, e := range entries {
		e.Embedding = append([]float32(nil), e.Embedding...)
		if i, ok := v.byID[e.Chunk.ID]; ok {
			v.entries[i] = e
			continue
		}
		v.byID[e.Chunk.ID] = len(v.entries)
		v.entries = append(v.entries, e)
	}
	return nil
}

// Search returns the k entries most similar to query among those matching filter.
func (v *VectorIndex) Search(_ context.Context, query []float32, k int, filter domain.Filter) ([]driven.VectorHit, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if len(v.entries) == 0 || k <= 0 {
		return []driven.VectorHit{}, nil
	}
	if len(query) != v.dimension {
		return nil, &domain.DimensionMismatchError{Expected: v.dimension, Got: len(query)}
	}

	candidates := make([]similarity.Scored, 0, len(v.entries))
	for i, e := range v.entries {
		if !filter.Matches(e.Chunk) {
			continue
		}
		candidates = append(candidates, similarity.Scored{Index: i, Score: similarity.Cosine(query, e.Embedding)})
	}

	top := similarity.TopK(candidates, k)
	hits := make([]driven.VectorHit, len(top))
	for i, c := range top {
		hits[i] = driven.VectorHit{Chunk: v.entries[c.Index].Chunk, Similarity: c.Score}
	}
	return hits, nil
}

// Count returns the number of entries matching filter.
func (v *VectorIndex) Count(_ context.Context, filter domain.Filter) (int, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	n := 0
	for _, e := range v.entries {
		if filter.Matches(e.Chunk) {
			n++
		}
	}
	return n, nil
}

// Dimension returns the collection's vector size, zero when empty.
func (v *VectorIndex) Dimension(_ context.Context) (int, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.dimension, nil
}

// Reset empties the collection.
func (v *VectorIndex) Reset(_ context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.dimension = 0
	v.entries = nil
	v.byID = make(map[string]int)
	return nil
}

// Close is a no-op for in-memory index.
func (v *VectorIndex) Close() error {
	return nil
}

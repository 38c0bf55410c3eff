package driven

import (
	"context"

	"github.com/custodia-labs/ytqa/internal/core/domain"
)

// VectorIndex stores embedded chunks in a named collection and searches them.
// A collection holds vectors of a single dimension, fixed by the first Add.
type VectorIndex interface {
	// Add stores entries in the collection, replacing every previously
	// stored chunk of the videos they belong to.
	// Returns a *domain.DimensionMismatchError when the vectors do not match
	// the collection's dimension.
	Add(ctx context.Context, entries []domain.IndexedEntry) error

	// Search finds the k nearest entries to the query vector among those
	// matching filter. An empty collection yields an empty result.
	// Returns a *domain.DimensionMismatchError when the query vector does
	// not match the collection's dimension.
	Search(ctx context.Context, query []float32, k int, filter domain.Filter) ([]VectorHit, error)

	// Count returns the number of entries matching filter.
	Count(ctx context.Context, filter domain.Filter) (int, error)

	// Dimension returns the collection's vector size, zero when empty.
	Dimension(ctx context.Context) (int, error)

	// Reset drops the collection and recreates it empty.
	Reset(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// Chunk is the matched chunk.
	Chunk domain.Chunk

	// Similarity is the cosine similarity score.
	Similarity float64
}

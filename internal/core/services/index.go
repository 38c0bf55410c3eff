package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/ytqa/internal/core/domain"
	"github.com/custodia-labs/ytqa/internal/core/ports/driven"
	"github.com/custodia-labs/ytqa/internal/logger"
)

// DefaultEmbedBatchSize bounds the number of texts sent per embedding call.
const DefaultEmbedBatchSize = 64

// Index embeds chunks and stores them in a vector collection.
//
// The collection holds a single embedding space. When the configured
// embedding model produces vectors of a different size than the stored
// ones, the whole collection is reset: on Query the search is retried once
// against the now-empty collection, on Insert the batch is stored again.
type Index struct {
	store     driven.VectorIndex
	embedder  driven.EmbeddingService
	batchSize int
}

// NewIndex creates an index over store using embedder for all vectors.
func NewIndex(store driven.VectorIndex, embedder driven.EmbeddingService) *Index {
	return &Index{
		store:     store,
		embedder:  embedder,
		batchSize: DefaultEmbedBatchSize,
	}
}

// SetBatchSize overrides the embedding batch size.
func (i *Index) SetBatchSize(n int) {
	if n > 0 {
		i.batchSize = n
	}
}

// Insert embeds chunks and stores them.
func (i *Index) Insert(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for n, c := range chunks {
		texts[n] = c.Content
	}

	vectors, err := i.embedAll(ctx, texts)
	if err != nil {
		return err
	}

	entries := make([]domain.IndexedEntry, len(chunks))
	for n, c := range chunks {
		entries[n] = domain.IndexedEntry{Chunk: c, Embedding: vectors[n]}
	}

	err = i.store.Add(ctx, entries)
	if errors.Is(err, domain.ErrDimensionMismatch) {
		logger.Warn("Index: %v; resetting collection", err)
		if err := i.store.Reset(ctx); err != nil {
			return fmt.Errorf("reset collection: %w", err)
		}
		err = i.store.Add(ctx, entries)
	}
	if err != nil {
		return fmt.Errorf("store chunks: %w", err)
	}

	logger.Debug("Index: stored %d chunks", len(entries))
	return nil
}

// Query embeds text and returns the k most similar chunks matching filter.
// An empty collection yields an empty slice.
func (i *Index) Query(ctx context.Context, text string, k int, filter domain.Filter) ([]domain.Chunk, error) {
	vector, err := i.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", domain.ErrEmbeddingUnavailable, err)
	}

	hits, err := i.store.Search(ctx, vector, k, filter)
	if errors.Is(err, domain.ErrDimensionMismatch) {
		logger.Warn("Index: %v; resetting collection", err)
		if err := i.store.Reset(ctx); err != nil {
			return nil, fmt.Errorf("reset collection: %w", err)
		}
		hits, err = i.store.Search(ctx, vector, k, filter)
	}
	if err != nil {
		return nil, fmt.Errorf("search collection: %w", err)
	}

	chunks := make([]domain.Chunk, len(hits))
	for n, h := range hits {
		chunks[n] = h.Chunk
		logger.Debug("Index: hit %d chunk=%s position=%d similarity=%.4f", n+1, h.Chunk.ID, h.Chunk.Position, h.Similarity)
	}
	return chunks, nil
}

// Count returns the number of stored chunks matching filter.
func (i *Index) Count(ctx context.Context, filter domain.Filter) (int, error) {
	return i.store.Count(ctx, filter)
}

// Reset drops every stored chunk.
func (i *Index) Reset(ctx context.Context) error {
	logger.Info("Index: resetting collection")
	return i.store.Reset(ctx)
}

func (i *Index) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))

	for start := 0; start < len(texts); start += i.batchSize {
		end := start + i.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		batch, err := i.embedder.EmbedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("%w: embed chunks: %v", domain.ErrEmbeddingUnavailable, err)
		}
		if len(batch) != end-start {
			return nil, fmt.Errorf("%w: expected %d embeddings, got %d",
				domain.ErrEmbeddingUnavailable, end-start, len(batch))
		}
		vectors = append(vectors, batch...)
	}

	return vectors, nil
}

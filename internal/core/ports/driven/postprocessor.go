package driven

import (
	"context"

	"github.com/custodia-labs/ytqa/internal/core/domain"
)

// PostProcessor turns transcript text into chunks.
// PostProcessors are chained in a pipeline (e.g., cleaning, then chunking).
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes a transcript and returns chunks.
	// Processors that run before chunking receive nil chunks and may rewrite
	// the transcript content; processors that create chunks ignore their input
	// chunks; later processors receive and may modify the chunks.
	Process(ctx context.Context, transcript *domain.Transcript, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the transcript through all processors in order.
	// Returns the final chunks after all processing.
	Process(ctx context.Context, transcript *domain.Transcript) ([]domain.Chunk, error)
}

package driving

import (
	"context"

	"github.com/custodia-labs/ytqa/internal/core/domain"
)

// QuestionService answers questions about YouTube videos.
type QuestionService interface {
	// Ask answers query using the transcript of the video at videoURL,
	// ingesting the video first when it is not yet indexed.
	Ask(ctx context.Context, query, videoURL string) (*domain.Answer, error)

	// Ingest fetches, chunks and indexes the video at videoURL without asking.
	// Returns the number of chunks stored.
	Ingest(ctx context.Context, videoURL string) (int, error)

	// Reset drops every indexed chunk.
	Reset(ctx context.Context) error
}

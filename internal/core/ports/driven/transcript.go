package driven

import (
	"context"

	"github.com/custodia-labs/ytqa/internal/core/domain"
)

// TranscriptFetcher retrieves caption text for a video from an external service.
type TranscriptFetcher interface {
	// Fetch returns the transcript using the first available language in
	// languages. Returns domain.ErrCaptionsDisabled when the video has no
	// captions and wraps domain.ErrFetchFailed for any other failure.
	Fetch(ctx context.Context, videoID domain.VideoRef, languages []string) (*domain.Transcript, error)
}

// TranscriptStore caches transcripts so re-ingestion does not refetch them.
type TranscriptStore interface {
	// Get returns a cached transcript or domain.ErrNotFound.
	Get(ctx context.Context, videoID domain.VideoRef) (*domain.Transcript, error)

	// Save stores or replaces a transcript.
	Save(ctx context.Context, transcript *domain.Transcript) error
}

// TranscriptArchive keeps a durable copy of every fetched transcript.
type TranscriptArchive interface {
	// Put uploads the transcript.
	Put(ctx context.Context, transcript *domain.Transcript) error
}

// MetadataProvider looks up descriptive data about a video.
type MetadataProvider interface {
	// Lookup returns metadata or domain.ErrNotFound.
	Lookup(ctx context.Context, videoID domain.VideoRef) (*domain.VideoMetadata, error)
}

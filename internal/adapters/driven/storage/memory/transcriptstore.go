package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/ytqa/internal/core/domain"
	"github.com/custodia-labs/ytqa/internal/core/ports/driven"
)

// Ensure TranscriptStore implements the interface.
var _ driven.TranscriptStore = (*TranscriptStore)(nil)

// TranscriptStore is an in-memory implementation of driven.TranscriptStore.
type TranscriptStore struct {
	mu          sync.RWMutex
	transcripts map[domain.VideoRef]domain.Transcript
}

// NewTranscriptStore creates a new in-memory transcript cache.
func NewTranscriptStore() *TranscriptStore {
	return &TranscriptStore{transcripts: make(map[domain.VideoRef]domain.Transcript)}
}

// Get returns a cached transcript or domain.ErrNotFound.
func (s *TranscriptStore) Get(_ context.Context, videoID domain.VideoRef) (*domain.Transcript, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.transcripts[videoID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

// Save stores or replaces a transcript.
func (s *TranscriptStore) Save(_ context.Context, t *domain.Transcript) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcripts[t.VideoID] = *t
	return nil
}

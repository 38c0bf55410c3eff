package postprocessors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ytqa/internal/core/domain"
)

// mockProcessor is a test processor that returns predefined chunks.
type mockProcessor struct {
	name    string
	chunks  []domain.Chunk
	err     error
	rewrite string
}

func (m *mockProcessor) Name() string {
	return m.name
}

func (m *mockProcessor) Process(_ context.Context, t *domain.Transcript, chunks []domain.Chunk) ([]domain.Chunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.rewrite != "" {
		t.Content = m.rewrite
	}
	if m.chunks != nil {
		return m.chunks, nil
	}
	return chunks, nil
}

func testTranscript() *domain.Transcript {
	return domain.NewTranscript("dQw4w9WgXcQ", "test content", "en")
}

func TestNewPipeline(t *testing.T) {
	p := NewPipeline()
	require.NotNil(t, p)
	assert.Equal(t, 0, p.Len())

	p.Add(&mockProcessor{name: "test"})
	assert.Equal(t, 1, p.Len())
	assert.Equal(t, []string{"test"}, p.Names())
}

func TestPipeline_Process_NilTranscript(t *testing.T) {
	_, err := NewPipeline().Process(context.Background(), nil)
	assert.Error(t, err)
}

func TestPipeline_Process_EmptyPipeline(t *testing.T) {
	chunks, err := NewPipeline().Process(context.Background(), testTranscript())
	require.NoError(t, err)
	assert.Nil(t, chunks)
}

func TestPipeline_Process_MultipleProcessors(t *testing.T) {
	secondChunks := []domain.Chunk{
		{ID: "chunk-1", Content: "modified"},
		{ID: "chunk-2", Content: "added"},
	}

	p := NewPipeline(
		&mockProcessor{name: "first", chunks: []domain.Chunk{{ID: "chunk-1", Content: "first"}}},
		&mockProcessor{name: "second", chunks: secondChunks},
		&mockProcessor{name: "passthrough"},
	)

	chunks, err := p.Process(context.Background(), testTranscript())
	require.NoError(t, err)
	assert.Equal(t, secondChunks, chunks)
}

func TestPipeline_Process_ProcessorError(t *testing.T) {
	expectedErr := errors.New("processor failed")

	p := NewPipeline(&mockProcessor{name: "failing", err: expectedErr})

	_, err := p.Process(context.Background(), testTranscript())
	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Contains(t, err.Error(), "processor failing")
}

func TestPipeline_Process_DoesNotModifyInput(t *testing.T) {
	tr := testTranscript()
	p := NewPipeline(&mockProcessor{name: "rewriter", rewrite: "changed"})

	_, err := p.Process(context.Background(), tr)
	require.NoError(t, err)
	assert.Equal(t, "test content", tr.Content)
}

func TestNewDefaultPipeline_CleansThenChunks(t *testing.T) {
	tr := domain.NewTranscript("dQw4w9WgXcQ", "[Music]  never   gonna [Applause] give you up", "en")

	chunks, err := NewDefaultPipeline().Process(context.Background(), tr)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "never gonna give you up", chunks[0].Content)
	assert.Equal(t, domain.VideoRef("dQw4w9WgXcQ"), chunks[0].VideoID)
}

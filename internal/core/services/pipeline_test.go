package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ytqa/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ytqa/internal/core/domain"
	"github.com/custodia-labs/ytqa/internal/core/ports/driven"
	"github.com/custodia-labs/ytqa/internal/postprocessors"
)

const (
	testURL      = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	bakeQuestion = "For how many minutes does the cake bake at 180 degrees?"
)

type pipelineFixture struct {
	pipeline *Pipeline
	fetcher  *fakeFetcher
	embedder *fakeEmbedder
	llm      *fakeLLM
	metadata *fakeMetadata
	store    driven.VectorIndex
}

func recipeTranscript() string {
	var b strings.Builder
	for i := 1; i <= 80; i++ {
		fmt.Fprintf(&b, "In step %d the chef adds %d grams of flour and stirs the batter slowly. ", i, i*10)
	}
	b.WriteString("[Music] Finally the cake bakes at 180 degrees for forty minutes until golden.")
	return b.String()
}

func newPipelineFixture(t *testing.T, content string) *pipelineFixture {
	t.Helper()

	f := &pipelineFixture{
		fetcher: &fakeFetcher{transcripts: map[domain.VideoRef]*domain.Transcript{
			testVideo: domain.NewTranscript(testVideo, content, "en"),
		}},
		embedder: &fakeEmbedder{dim: 128},
		llm: &fakeLLM{replyFn: func(messages []driven.ChatMessage) string {
			if strings.Contains(messages[0].Content, "180 degrees") {
				return "<think>found it</think>The cake bakes at 180 degrees."
			}
			return "The context does not say."
		}},
		metadata: &fakeMetadata{meta: &domain.VideoMetadata{Title: "Sponge Cake"}},
		store:    memory.NewVectorIndex(),
	}

	f.pipeline = NewPipeline(PipelineDeps{
		Index:       NewIndex(f.store, f.embedder),
		Transcripts: NewTranscriptService(f.fetcher, memory.NewTranscriptStore(), nil, f.llm, testPrompts, DefaultTranscriptConfig()),
		Processors:  postprocessors.NewDefaultPipeline(),
		Assembler:   NewPromptAssembler(testPrompts),
		Generator:   NewAnswerGenerator(f.llm, DefaultAnswerConfig()),
		Metadata:    f.metadata,
	})
	return f
}

func TestPipeline_CacheMissIngestsThenAnswers(t *testing.T) {
	f := newPipelineFixture(t, recipeTranscript())

	qc, err := f.pipeline.Run(context.Background(), bakeQuestion, testURL)

	require.NoError(t, err)
	assert.Equal(t, domain.StateDone, qc.State)
	assert.False(t, qc.CacheHit)
	assert.Equal(t, testVideo, qc.Video)
	assert.NotEmpty(t, qc.Chunks)
	assert.LessOrEqual(t, len(qc.Chunks), DefaultK)
	for _, c := range qc.Chunks {
		assert.Equal(t, testVideo, c.VideoID)
		assert.NotContains(t, c.Content, "[Music]")
	}
	assert.Contains(t, qc.Context, "180 degrees")
	assert.Contains(t, qc.Prompt.System, "<context>")
	assert.Equal(t, bakeQuestion, qc.Prompt.User)
	assert.Equal(t, "The cake bakes at 180 degrees.", qc.Answer)
	assert.Equal(t, 1, f.fetcher.calls)

	n, err := f.store.Count(context.Background(), domain.ForVideo(testVideo))
	require.NoError(t, err)
	assert.Greater(t, n, DefaultK)
}

func TestPipeline_CacheHitSkipsIngest(t *testing.T) {
	f := newPipelineFixture(t, recipeTranscript())
	ctx := context.Background()

	_, err := f.pipeline.Run(ctx, "how much flour?", testURL)
	require.NoError(t, err)

	qc, err := f.pipeline.Run(ctx, "how long does it bake?", "https://youtu.be/dQw4w9WgXcQ?t=42")

	require.NoError(t, err)
	assert.True(t, qc.CacheHit)
	assert.Equal(t, 1, f.fetcher.calls)
	assert.Equal(t, domain.StateDone, qc.State)
}

func TestPipeline_EmptyRetrievalAfterIngest(t *testing.T) {
	f := newPipelineFixture(t, "[Music] [Applause]")

	qc, err := f.pipeline.Run(context.Background(), "what happens?", testURL)

	assert.ErrorIs(t, err, domain.ErrEmptyRetrieval)
	assert.Equal(t, domain.StateRetrieve, qc.State)
	assert.Empty(t, f.llm.messages)
}

func TestPipeline_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		url     string
		wantErr error
	}{
		{"not youtube", "q", "https://vimeo.com/12345", domain.ErrInvalidURL},
		{"no id", "q", "https://www.youtube.com/channel/UCuAXFkgsw1L7xaCfnd5JJOw", domain.ErrNoVideoID},
		{"empty question", "  ", testURL, domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPipelineFixture(t, recipeTranscript())

			_, err := f.pipeline.Run(context.Background(), tt.query, tt.url)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, f.fetcher.calls)
		})
	}
}

func TestPipeline_UpstreamErrorsPropagate(t *testing.T) {
	t.Run("captions disabled", func(t *testing.T) {
		f := newPipelineFixture(t, recipeTranscript())
		f.fetcher.err = domain.ErrCaptionsDisabled

		qc, err := f.pipeline.Run(context.Background(), "q", testURL)

		assert.ErrorIs(t, err, domain.ErrCaptionsDisabled)
		assert.Equal(t, domain.StateIngest, qc.State)
	})

	t.Run("generation failed", func(t *testing.T) {
		f := newPipelineFixture(t, recipeTranscript())
		_, err := f.pipeline.Ingest(context.Background(), testURL)
		require.NoError(t, err)
		f.llm.err = errors.New("rate limited")

		qc, err := f.pipeline.Run(context.Background(), "q", testURL)

		assert.ErrorIs(t, err, domain.ErrGenerationFailed)
		assert.Equal(t, domain.StateGenerate, qc.State)
	})

	t.Run("embedding unavailable", func(t *testing.T) {
		f := newPipelineFixture(t, recipeTranscript())
		f.embedder.err = errors.New("no key")

		_, err := f.pipeline.Run(context.Background(), "q", testURL)

		assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	})
}

func TestPipeline_AskSummarises(t *testing.T) {
	f := newPipelineFixture(t, recipeTranscript())

	answer, err := f.pipeline.Ask(context.Background(), bakeQuestion, testURL)

	require.NoError(t, err)
	assert.Equal(t, testVideo, answer.VideoID)
	assert.Equal(t, "Sponge Cake", answer.Title)
	assert.Equal(t, "The cake bakes at 180 degrees.", answer.Text)
	assert.Equal(t, "fake-llm", answer.Model)
	assert.Positive(t, answer.Chunks)
}

func TestPipeline_AskLooksUpTitleOnce(t *testing.T) {
	f := newPipelineFixture(t, recipeTranscript())
	ctx := context.Background()

	for _, q := range []string{bakeQuestion, "how much flour?", "how long does it bake?"} {
		answer, err := f.pipeline.Ask(ctx, q, testURL)
		require.NoError(t, err)
		assert.Equal(t, "Sponge Cake", answer.Title)
	}
	assert.Equal(t, 1, f.metadata.calls)
}

func TestPipeline_AskRetriesFailedTitleLookup(t *testing.T) {
	f := newPipelineFixture(t, recipeTranscript())
	f.metadata.err = errors.New("quota exceeded")
	ctx := context.Background()

	answer, err := f.pipeline.Ask(ctx, bakeQuestion, testURL)
	require.NoError(t, err)
	assert.Empty(t, answer.Title)

	f.metadata.err = nil
	answer, err = f.pipeline.Ask(ctx, bakeQuestion, testURL)
	require.NoError(t, err)
	assert.Equal(t, "Sponge Cake", answer.Title)
	assert.Equal(t, 2, f.metadata.calls)
}

func TestPipeline_IngestIsIdempotentAndResetClears(t *testing.T) {
	f := newPipelineFixture(t, recipeTranscript())
	ctx := context.Background()

	first, err := f.pipeline.Ingest(ctx, testURL)
	require.NoError(t, err)
	second, err := f.pipeline.Ingest(ctx, testURL)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	n, err := f.store.Count(ctx, domain.Filter{})
	require.NoError(t, err)
	assert.Equal(t, first, n)

	require.NoError(t, f.pipeline.Reset(ctx))
	n, err = f.store.Count(ctx, domain.Filter{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

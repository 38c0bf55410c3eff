package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/ytqa/internal/core/domain"
	"github.com/custodia-labs/ytqa/internal/core/ports/driven"
	"github.com/custodia-labs/ytqa/internal/core/ports/driving"
	"github.com/custodia-labs/ytqa/internal/logger"
)

// Verify interface compliance.
var _ driving.QuestionService = (*Pipeline)(nil)

// DefaultK is the number of chunks retrieved per question.
const DefaultK = 4

// Pipeline orchestrates retrieval for one question at a time:
//
//	CheckCache -> CacheHit  -> Format -> Generate -> Done
//	           -> CacheMiss -> Ingest -> Retrieve -> Format -> Generate -> Done
type Pipeline struct {
	index       *Index
	transcripts *TranscriptService
	processors  driven.PostProcessorPipeline
	assembler   *PromptAssembler
	generator   *AnswerGenerator
	metadata    driven.MetadataProvider
	k           int

	mu     sync.Mutex
	titles map[domain.VideoRef]string
}

// PipelineDeps holds the collaborators of a Pipeline.
type PipelineDeps struct {
	Index       *Index
	Transcripts *TranscriptService
	Processors  driven.PostProcessorPipeline
	Assembler   *PromptAssembler
	Generator   *AnswerGenerator

	// Metadata is optional and only used to title answers.
	Metadata driven.MetadataProvider

	// K is the number of chunks to retrieve; DefaultK when zero.
	K int
}

// NewPipeline creates a retrieval pipeline.
func NewPipeline(deps PipelineDeps) *Pipeline {
	k := deps.K
	if k <= 0 {
		k = DefaultK
	}
	return &Pipeline{
		index:       deps.Index,
		transcripts: deps.Transcripts,
		processors:  deps.Processors,
		assembler:   deps.Assembler,
		generator:   deps.Generator,
		metadata:    deps.Metadata,
		k:           k,
		titles:      make(map[domain.VideoRef]string),
	}
}

// Run answers query about the video at videoURL.
// The returned QueryContext is non-nil even on error and records the last
// state entered.
func (p *Pipeline) Run(ctx context.Context, query, videoURL string) (*domain.QueryContext, error) {
	qc := &domain.QueryContext{Query: query, VideoURL: videoURL}

	if strings.TrimSpace(query) == "" {
		return qc, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	p.enter(qc, domain.StateCheckCache)
	id, err := domain.VideoIDFromURL(videoURL)
	if err != nil {
		return qc, fmt.Errorf("%q: %w", videoURL, err)
	}
	qc.Video = id

	chunks, err := p.index.Query(ctx, query, p.k, domain.ForVideo(id))
	if err != nil {
		return qc, err
	}

	if len(chunks) > 0 {
		p.enter(qc, domain.StateCacheHit)
		qc.CacheHit = true
	} else {
		p.enter(qc, domain.StateCacheMiss)

		p.enter(qc, domain.StateIngest)
		if _, err := p.ingest(ctx, id); err != nil {
			return qc, err
		}

		p.enter(qc, domain.StateRetrieve)
		chunks, err = p.index.Query(ctx, query, p.k, domain.ForVideo(id))
		if err != nil {
			return qc, err
		}
		if len(chunks) == 0 {
			return qc, fmt.Errorf("%s: %w", id, domain.ErrEmptyRetrieval)
		}
	}
	qc.Chunks = chunks

	p.enter(qc, domain.StateFormat)
	qc.Context = JoinContext(chunks)

	p.enter(qc, domain.StateGenerate)
	qc.Prompt, err = p.assembler.Assemble(qc.Context, query)
	if err != nil {
		return qc, err
	}
	qc.Answer, err = p.generator.Generate(ctx, qc.Prompt)
	if err != nil {
		return qc, err
	}

	p.enter(qc, domain.StateDone)
	return qc, nil
}

// Ask runs the pipeline and summarises the result.
func (p *Pipeline) Ask(ctx context.Context, query, videoURL string) (*domain.Answer, error) {
	qc, err := p.Run(ctx, query, videoURL)
	if err != nil {
		return nil, err
	}

	return &domain.Answer{
		VideoID:  qc.Video,
		Title:    p.title(ctx, qc.Video),
		Query:    qc.Query,
		Text:     qc.Answer,
		CacheHit: qc.CacheHit,
		Chunks:   len(qc.Chunks),
		Model:    p.generator.ModelName(),
	}, nil
}

// Ingest fetches, chunks and indexes a video regardless of whether it is
// already indexed. Re-ingesting replaces the video's entries.
func (p *Pipeline) Ingest(ctx context.Context, videoURL string) (int, error) {
	id, err := domain.VideoIDFromURL(videoURL)
	if err != nil {
		return 0, fmt.Errorf("%q: %w", videoURL, err)
	}
	return p.ingest(ctx, id)
}

// Reset drops every indexed chunk.
func (p *Pipeline) Reset(ctx context.Context) error {
	return p.index.Reset(ctx)
}

func (p *Pipeline) ingest(ctx context.Context, id domain.VideoRef) (int, error) {
	transcript, err := p.transcripts.Load(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("load transcript %s: %w", id, err)
	}

	chunks, err := p.processors.Process(ctx, transcript)
	if err != nil {
		return 0, fmt.Errorf("chunk transcript %s: %w", id, err)
	}

	if err := p.index.Insert(ctx, chunks); err != nil {
		return 0, fmt.Errorf("index transcript %s: %w", id, err)
	}

	logger.Info("Pipeline: indexed %s as %d chunks", id, len(chunks))
	return len(chunks), nil
}

// title looks a video up once per process; failed lookups are retried.
func (p *Pipeline) title(ctx context.Context, id domain.VideoRef) string {
	if p.metadata == nil {
		return ""
	}

	p.mu.Lock()
	title, ok := p.titles[id]
	p.mu.Unlock()
	if ok {
		return title
	}

	meta, err := p.metadata.Lookup(ctx, id)
	if err != nil {
		logger.Debug("Pipeline: metadata for %s unavailable: %v", id, err)
		return ""
	}

	p.mu.Lock()
	p.titles[id] = meta.Title
	p.mu.Unlock()
	return meta.Title
}

func (p *Pipeline) enter(qc *domain.QueryContext, state domain.PipelineState) {
	logger.Debug("Pipeline: %s -> %s", qc.State, state)
	qc.State = state
}

// Package chunker provides a recursive character text splitter.
//
// Text is split on the coarsest separator present ("\n\n", then "\n",
// ". ", " ") and pieces still longer than the chunk size are split again
// with the next separator, down to a hard cut between characters. The
// pieces are then merged back into chunks of at most chunkSize characters,
// each starting with up to overlap characters from the end of the previous one.
package chunker

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/ytqa/internal/core/domain"
	"github.com/custodia-labs/ytqa/internal/core/ports/driven"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters (20%).
const DefaultChunkOverlap = 200

// DefaultSeparators are tried in order, coarsest first. The empty
// separator cuts between characters.
var DefaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// idNamespace scopes deterministic chunk IDs.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://www.youtube.com/"))

var _ driven.PostProcessor = (*Processor)(nil)

// Processor splits transcript content into overlapping chunks.
type Processor struct {
	chunkSize  int
	overlap    int
	separators []string
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// WithSeparators replaces the separator list. The list should end with ""
// so oversized pieces can always be cut.
func WithSeparators(seps ...string) Option {
	return func(p *Processor) {
		if len(seps) > 0 {
			p.separators = seps
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultChunkOverlap,
		separators: DefaultSeparators,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the transcript into chunks.
// Input chunks are ignored; this processor creates new chunks from the content.
func (p *Processor) Process(ctx context.Context, t *domain.Transcript, _ []domain.Chunk) ([]domain.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.Split(t), nil
}

// Split cuts the transcript into chunks. Every chunk inherits the
// transcript's metadata and gets an ID derived from (video id, position).
func (p *Processor) Split(t *domain.Transcript) []domain.Chunk {
	if t == nil || strings.TrimSpace(t.Content) == "" {
		return nil
	}

	texts := p.splitText(t.Content, p.separators)
	chunks := make([]domain.Chunk, 0, len(texts))

	for i, text := range texts {
		meta := make(map[string]any, len(t.Metadata))
		for k, v := range t.Metadata {
			meta[k] = v
		}

		chunks = append(chunks, domain.Chunk{
			ID:       ChunkID(t.VideoID, i),
			VideoID:  t.VideoID,
			Content:  text,
			Position: i,
			Metadata: meta,
		})
	}

	return chunks
}

// ChunkID returns the deterministic ID of the chunk at position.
func ChunkID(videoID domain.VideoRef, position int) string {
	return uuid.NewSHA1(idNamespace, []byte(fmt.Sprintf("%s:%d", videoID, position))).String()
}

// splitText recursively splits text and merges the pieces into chunks.
func (p *Processor) splitText(text string, separators []string) []string {
	sep := separators[len(separators)-1]
	var rest []string
	for i, s := range separators {
		if s == "" || strings.Contains(text, s) {
			sep = s
			rest = separators[i+1:]
			break
		}
	}

	var (
		final []string
		good  []string
	)
	for _, piece := range splitKeep(text, sep) {
		if runeLen(piece) <= p.chunkSize {
			good = append(good, piece)
			continue
		}
		if len(good) > 0 {
			final = append(final, p.merge(good)...)
			good = nil
		}
		if len(rest) == 0 {
			final = append(final, piece)
			continue
		}
		final = append(final, p.splitText(piece, rest)...)
	}
	if len(good) > 0 {
		final = append(final, p.merge(good)...)
	}

	return final
}

// merge packs pieces into chunks no longer than chunkSize, carrying at most
// overlap characters of trailing pieces into the next chunk.
func (p *Processor) merge(pieces []string) []string {
	var (
		out     []string
		current []string
		total   int
	)

	for _, piece := range pieces {
		n := runeLen(piece)
		if total+n > p.chunkSize && len(current) > 0 {
			if doc := strings.TrimSpace(strings.Join(current, "")); doc != "" {
				out = append(out, doc)
			}
			for total > p.overlap || (total+n > p.chunkSize && total > 0) {
				total -= runeLen(current[0])
				current = current[1:]
			}
		}
		current = append(current, piece)
		total += n
	}

	if doc := strings.TrimSpace(strings.Join(current, "")); doc != "" {
		out = append(out, doc)
	}

	return out
}

// splitKeep splits text on sep, keeping sep attached to the end of each
// piece so no text is lost. An empty sep splits into single characters.
func splitKeep(text, sep string) []string {
	if sep == "" {
		out := make([]string, 0, utf8.RuneCountInString(text))
		for _, r := range text {
			out = append(out, string(r))
		}
		return out
	}

	parts := strings.SplitAfter(text, sep)
	out := parts[:0]
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

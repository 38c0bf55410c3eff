// Package cleaner normalises caption text before it is chunked.
package cleaner

import (
	"context"
	"regexp"
	"strings"

	"github.com/custodia-labs/ytqa/internal/core/domain"
	"github.com/custodia-labs/ytqa/internal/core/ports/driven"
)

// cueRe matches non-speech caption cues such as [Music] or [Applause].
var cueRe = regexp.MustCompile(`\[[^\[\]\n]{1,40}\]`)

// spaceRe collapses runs of spaces and tabs, leaving newlines alone.
var spaceRe = regexp.MustCompile(`[ \t\x{00A0}]+`)

var _ driven.PostProcessor = (*Processor)(nil)

// Processor strips caption cues and collapses whitespace.
type Processor struct {
	keepCues bool
}

// Option configures the cleaner.
type Option func(*Processor)

// KeepCues leaves bracketed cues in the text.
func KeepCues() Option {
	return func(p *Processor) { p.keepCues = true }
}

// New creates a cleaner.
func New(opts ...Option) *Processor {
	p := &Processor{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "cleaner"
}

// Process cleans the transcript content when run before chunking, or each
// chunk's content when run after. Empty chunks are dropped.
func (p *Processor) Process(_ context.Context, t *domain.Transcript, chunks []domain.Chunk) ([]domain.Chunk, error) {
	if chunks == nil {
		t.SetContent(p.Clean(t.Content))
		return nil, nil
	}

	out := chunks[:0]
	for _, c := range chunks {
		c.Content = p.Clean(c.Content)
		if c.Content != "" {
			out = append(out, c)
		}
	}
	return out, nil
}

// Clean returns text without cues and with collapsed whitespace.
func (p *Processor) Clean(text string) string {
	if !p.keepCues {
		text = cueRe.ReplaceAllString(text, " ")
	}
	text = spaceRe.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

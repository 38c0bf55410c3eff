package services

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/custodia-labs/ytqa/internal/core/domain"
	"github.com/custodia-labs/ytqa/internal/core/ports/driven"
)

// fakeEmbedder produces deterministic bag-of-words vectors so that texts
// sharing words score as similar.
type fakeEmbedder struct {
	dim   int
	err   error
	calls int
}

func (f *fakeEmbedder) vector(text string) []float32 {
	v := make([]float32, f.dim)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(strings.Trim(w, ".,?!")))
		v[h.Sum32()%uint32(f.dim)]++
	}
	return v
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vector(text), nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = f.vector(t)
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() int              { return f.dim }
func (f *fakeEmbedder) ModelName() string            { return "fake-embed" }
func (f *fakeEmbedder) Ping(_ context.Context) error { return f.err }
func (f *fakeEmbedder) Close() error                 { return nil }

// fakeLLM returns a canned reply and records the messages it received.
type fakeLLM struct {
	mu       sync.Mutex
	reply    string
	replyFn  func(messages []driven.ChatMessage) string
	err      error
	messages [][]driven.ChatMessage
	opts     []driven.ChatOptions
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	return f.Chat(ctx, []driven.ChatMessage{{Role: driven.RoleUser, Content: prompt}},
		driven.ChatOptions{MaxTokens: opts.MaxTokens, Temperature: opts.Temperature})
}

func (f *fakeLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, messages)
	f.opts = append(f.opts, opts)
	if f.err != nil {
		return "", f.err
	}
	if f.replyFn != nil {
		return f.replyFn(messages), nil
	}
	return f.reply, nil
}

func (f *fakeLLM) ModelName() string            { return "fake-llm" }
func (f *fakeLLM) Ping(_ context.Context) error { return nil }
func (f *fakeLLM) Close() error                 { return nil }

// fakeFetcher serves transcripts from a map.
type fakeFetcher struct {
	transcripts map[domain.VideoRef]*domain.Transcript
	err         error
	calls       int
	languages   []string
}

func (f *fakeFetcher) Fetch(_ context.Context, id domain.VideoRef, languages []string) (*domain.Transcript, error) {
	f.calls++
	f.languages = languages
	if f.err != nil {
		return nil, f.err
	}
	t, ok := f.transcripts[id]
	if !ok {
		return nil, domain.ErrCaptionsDisabled
	}
	copied := *t
	return &copied, nil
}

// fakeArchive records uploaded transcripts.
type fakeArchive struct {
	err  error
	puts []domain.VideoRef
}

func (f *fakeArchive) Put(_ context.Context, t *domain.Transcript) error {
	f.puts = append(f.puts, t.VideoID)
	return f.err
}

// fakeMetadata returns a fixed title.
type fakeMetadata struct {
	meta  *domain.VideoMetadata
	err   error
	calls int
}

func (f *fakeMetadata) Lookup(_ context.Context, _ domain.VideoRef) (*domain.VideoMetadata, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.meta, nil
}

// fakePrompts serves prompts from a map.
type fakePrompts map[string]string

func (f fakePrompts) Load(name string) (string, error) {
	p, ok := f[name]
	if !ok {
		return "", errors.New("prompt not found: " + name)
	}
	return p, nil
}

func (f fakePrompts) Reload() {}

// mismatchIndex wraps a VectorIndex and fails the first Search or Add with a
// dimension mismatch.
type mismatchIndex struct {
	driven.VectorIndex
	failSearch bool
	failAdd    bool
	searches   int
	adds       int
	resets     int
}

func (m *mismatchIndex) Search(ctx context.Context, q []float32, k int, f domain.Filter) ([]driven.VectorHit, error) {
	m.searches++
	if m.failSearch {
		m.failSearch = false
		return nil, &domain.DimensionMismatchError{Expected: 3072, Got: len(q)}
	}
	return m.VectorIndex.Search(ctx, q, k, f)
}

func (m *mismatchIndex) Add(ctx context.Context, entries []domain.IndexedEntry) error {
	m.adds++
	if m.failAdd {
		m.failAdd = false
		return &domain.DimensionMismatchError{Expected: 3072, Got: len(entries[0].Embedding)}
	}
	return m.VectorIndex.Add(ctx, entries)
}

func (m *mismatchIndex) Reset(ctx context.Context) error {
	m.resets++
	return m.VectorIndex.Reset(ctx)
}

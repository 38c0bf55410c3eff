package cleaner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ytqa/internal/core/domain"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"collapses spaces", "a   b\t\tc", "a b c"},
		{"drops cues", "[Music] hello [Applause] world", "hello world"},
		{"keeps newlines", "line one  \n  line two", "line one\nline two"},
		{"only cues", "[Music]", ""},
		{"long brackets kept", "[" + "this bracket is far too long to be a caption cue" + "]", "[this bracket is far too long to be a caption cue]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New().Clean(tt.input))
		})
	}
}

func TestClean_KeepCues(t *testing.T) {
	assert.Equal(t, "[Music] hello", New(KeepCues()).Clean("[Music]   hello"))
}

func TestProcess_BeforeChunking(t *testing.T) {
	tr := domain.NewTranscript("dQw4w9WgXcQ", "[Music]  hi", "en")

	chunks, err := New().Process(context.Background(), tr, nil)
	require.NoError(t, err)
	assert.Nil(t, chunks)
	assert.Equal(t, "hi", tr.Content)
	assert.Equal(t, 2, tr.Metadata[domain.MetaLength])
	assert.Equal(t, tr.Length(), tr.Metadata[domain.MetaLength])
}

func TestProcess_AfterChunking(t *testing.T) {
	in := []domain.Chunk{
		{ID: "1", Content: "  a  b "},
		{ID: "2", Content: "[Music]"},
	}

	out, err := New().Process(context.Background(), &domain.Transcript{}, in)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "a b", out[0].Content)
	assert.Equal(t, "cleaner", New().Name())
}

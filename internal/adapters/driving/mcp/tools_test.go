package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ytqa/internal/core/domain"
)

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the answer", func(t *testing.T) {
		questions := &mockQuestionService{
			answer: &domain.Answer{
				VideoID:  "dQw4w9WgXcQ",
				Title:    "Never Gonna Give You Up",
				Query:    "what is promised?",
				Text:     "Never to give you up.",
				CacheHit: true,
				Chunks:   4,
				Model:    "gemini-2.5-flash",
			},
		}
		server, err := NewServer(&Ports{Questions: questions})
		require.NoError(t, err)

		_, output, err := server.handleAsk(ctx, nil, AskInput{
			URL:      "https://youtu.be/dQw4w9WgXcQ",
			Question: "what is promised?",
		})

		require.NoError(t, err)
		assert.Equal(t, "dQw4w9WgXcQ", output.VideoID)
		assert.Equal(t, "Never Gonna Give You Up", output.Title)
		assert.Equal(t, "Never to give you up.", output.Answer)
		assert.True(t, output.CacheHit)
		assert.Equal(t, 4, output.Chunks)
		assert.Equal(t, "what is promised?", questions.gotQuery)
		assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ", questions.gotURL)
	})

	t.Run("returns the pipeline error", func(t *testing.T) {
		server, err := NewServer(&Ports{Questions: &mockQuestionService{err: domain.ErrCaptionsDisabled}})
		require.NoError(t, err)

		_, _, err = server.handleAsk(ctx, nil, AskInput{URL: "dQw4w9WgXcQ", Question: "q"})

		assert.ErrorIs(t, err, domain.ErrCaptionsDisabled)
	})
}

func TestServer_handleIndex(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the chunk count", func(t *testing.T) {
		server, err := NewServer(&Ports{Questions: &mockQuestionService{chunks: 12}})
		require.NoError(t, err)

		_, output, err := server.handleIndex(ctx, nil, IndexInput{URL: "dQw4w9WgXcQ"})

		require.NoError(t, err)
		assert.Equal(t, 12, output.Chunks)
		assert.Equal(t, "dQw4w9WgXcQ", output.URL)
	})

	t.Run("invalid url", func(t *testing.T) {
		server, err := NewServer(&Ports{Questions: &mockQuestionService{err: domain.ErrInvalidURL}})
		require.NoError(t, err)

		_, _, err = server.handleIndex(ctx, nil, IndexInput{URL: "not a url"})

		assert.ErrorIs(t, err, domain.ErrInvalidURL)
	})
}

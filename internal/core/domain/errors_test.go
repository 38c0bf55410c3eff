package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrInvalidURL", ErrInvalidURL},
		{"ErrNoVideoID", ErrNoVideoID},
		{"ErrCaptionsDisabled", ErrCaptionsDisabled},
		{"ErrFetchFailed", ErrFetchFailed},
		{"ErrGenerationFailed", ErrGenerationFailed},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
		{"ErrEmbeddingUnavailable", ErrEmbeddingUnavailable},
		{"ErrNoProvider", ErrNoProvider},
		{"ErrDimensionMismatch", ErrDimensionMismatch},
		{"ErrEmptyRetrieval", ErrEmptyRetrieval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_Messages(t *testing.T) {
	assert.Equal(t, "invalid URL", ErrInvalidURL.Error())
	assert.Equal(t, "no video id extractable", ErrNoVideoID.Error())
	assert.Equal(t, "captions disabled", ErrCaptionsDisabled.Error())
	assert.Equal(t, "fetch failed", ErrFetchFailed.Error())
	assert.Equal(t, "generation failed", ErrGenerationFailed.Error())
}

func TestDimensionMismatchError(t *testing.T) {
	err := &DimensionMismatchError{Expected: 3072, Got: 1536}

	assert.Equal(t, "collection expecting embedding with dimension of 3072, got 1536", err.Error())
	assert.True(t, errors.Is(err, ErrDimensionMismatch))
	assert.False(t, errors.Is(err, ErrNotFound))

	wrapped := fmt.Errorf("query: %w", err)
	assert.ErrorIs(t, wrapped, ErrDimensionMismatch)

	var target *DimensionMismatchError
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, 3072, target.Expected)
	assert.Equal(t, 1536, target.Got)
}

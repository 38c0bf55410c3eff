package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Video reference errors.

	// ErrInvalidURL indicates the string is not a recognisable YouTube URL.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrNoVideoID indicates the URL looks like YouTube but carries no usable video id.
	ErrNoVideoID = errors.New("no video id extractable")

	// Upstream errors.

	// ErrCaptionsDisabled indicates the video has no caption tracks.
	ErrCaptionsDisabled = errors.New("captions disabled")

	// ErrFetchFailed wraps any other transcript transport or service failure.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrGenerationFailed indicates the language model call failed.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrNoProvider indicates none of the candidate provider configurations is satisfiable.
	ErrNoProvider = errors.New("no provider configured")

	// Index errors.

	// ErrDimensionMismatch indicates stored vectors were produced by a different embedding space.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmptyRetrieval indicates ingestion succeeded but retrieval returned no chunks.
	ErrEmptyRetrieval = errors.New("no chunks retrieved after ingestion")
)

// DimensionMismatchError reports the stored and requested embedding sizes.
// It matches ErrDimensionMismatch with errors.Is.
type DimensionMismatchError struct {
	// Expected is the dimension the collection was built with.
	Expected int

	// Got is the dimension of the offending vector.
	Got int
}

// Error implements the error interface.
func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("collection expecting embedding with dimension of %d, got %d", e.Expected, e.Got)
}

// Is reports whether target is ErrDimensionMismatch.
func (e *DimensionMismatchError) Is(target error) bool {
	return target == ErrDimensionMismatch
}

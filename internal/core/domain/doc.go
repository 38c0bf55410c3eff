// Package domain defines the core business entities for ytqa.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - VideoRef: A canonical 11-character YouTube video identifier
//   - Transcript: The caption text of one video with its metadata
//   - Chunk: A bounded window of a transcript, the unit of retrieval
//   - QueryContext: The per-request state threaded through the pipeline
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

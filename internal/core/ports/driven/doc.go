// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - TranscriptFetcher: Fetches captions from YouTube
//   - VectorIndex: Vector storage and similarity search
//   - EmbeddingService: Generates vector embeddings
//   - LLMService: Answers questions and translates transcripts
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - TranscriptStore: Transcript cache. Without it every ingestion refetches.
//   - TranscriptArchive: Durable copy of fetched transcripts.
//   - MetadataProvider: Video titles for display.
//   - PromptStore: User-editable prompts. Without it embedded defaults are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven

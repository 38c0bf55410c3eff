// Package sqlite provides the durable SQLite implementation of the vector
// collection and the transcript cache.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements two store interfaces
// through a single database connection:
//
//   - VectorIndex: embedded chunks of one named collection
//   - TranscriptStore: fetched (and translated) transcripts
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ./db/yt_store.db
//
// # Search
//
// Vectors are stored as little-endian float32 blobs. Similarity search loads
// the candidate rows for the filter and ranks them by cosine similarity in Go.
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite

package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/ytqa/internal/adapters/driven/storage/similarity"
	"github.com/custodia-labs/ytqa/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/ytqa/internal/core/domain"
	"github.com/custodia-labs/ytqa/internal/core/ports/driven"
)

// Defaults for the persisted collection.
const (
	DefaultDir        = "db"
	DefaultCollection = "yt_store"
)

// Store is a unified SQLite-based storage that provides access to
// the vector collection and the transcript cache through wrapper types.
type Store struct {
	db         *sql.DB
	path       string
	collection string
}

// NewStore opens (or creates) the database <dir>/<collection>.db.
// Empty arguments fall back to ./db and yt_store.
func NewStore(dir, collection string) (*Store, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if collection == "" {
		collection = DefaultCollection
	}

	// Ensure directory exists
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dir, collection+".db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:         db,
		path:       dbPath,
		collection: collection,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Collection returns the collection name.
func (s *Store) Collection() string {
	return s.collection
}

// VectorIndex returns a VectorIndex backed by this store.
// Closing the returned index closes the store.
func (s *Store) VectorIndex() driven.VectorIndex {
	return &vectorIndex{store: s}
}

// TranscriptStore returns a TranscriptStore backed by this store.
func (s *Store) TranscriptStore() driven.TranscriptStore {
	return &transcriptStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_init.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Vector Index ====================

// vectorIndex implements driven.VectorIndex.
type vectorIndex struct {
	store *Store
}

var _ driven.VectorIndex = (*vectorIndex)(nil)

// Add stores entries, replacing every stored row of their videos.
func (v *vectorIndex) Add(ctx context.Context, entries []domain.IndexedEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := v.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	dim, err := dimension(ctx, tx, v.store.collection)
	if err != nil {
		return err
	}
	if dim == 0 {
		dim = len(entries[0].Embedding)
		if dim == 0 {
			return fmt.Errorf("%w: empty embedding", domain.ErrInvalidInput)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO collections (name, dimension) VALUES (?, ?)", v.store.collection, dim); err != nil {
			return fmt.Errorf("creating collection: %w", err)
		}
	}
	for _, e := range entries {
		if len(e.Embedding) != dim {
			return &domain.DimensionMismatchError{Expected: dim, Got: len(e.Embedding)}
		}
	}

	for _, video := range domain.EntryVideos(entries) {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM embeddings WHERE collection = ? AND video_id = ?", v.store.collection, string(video)); err != nil {
			return fmt.Errorf("clearing chunks of %s: %w", video, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO embeddings (collection, chunk_id, video_id, content, position, metadata, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(collection, chunk_id) DO UPDATE SET
			video_id = excluded.video_id,
			content = excluded.content,
			position = excluded.position,
			metadata = excluded.metadata,
			embedding = excluded.embedding
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		metadataJSON, err := json.Marshal(e.Chunk.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling metadata: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, v.store.collection, e.Chunk.ID, string(e.Chunk.VideoID),
			e.Chunk.Content, e.Chunk.Position, string(metadataJSON), float32SliceToBytes(e.Embedding)); err != nil {
			return fmt.Errorf("saving embedding: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Search ranks the rows matching filter by cosine similarity to query.
func (v *vectorIndex) Search(ctx context.Context, query []float32, k int, filter domain.Filter) ([]driven.VectorHit, error) {
	dim, err := dimension(ctx, v.store.db, v.store.collection)
	if err != nil {
		return nil, err
	}
	if dim == 0 || k <= 0 {
		return []driven.VectorHit{}, nil
	}
	if len(query) != dim {
		return nil, &domain.DimensionMismatchError{Expected: dim, Got: len(query)}
	}

	rows, err := v.store.db.QueryContext(ctx, `
		SELECT chunk_id, video_id, content, position, metadata, embedding
		FROM embeddings
		WHERE collection = ? AND (? = '' OR video_id = ?)
		ORDER BY position, chunk_id
	`, v.store.collection, string(filter.VideoID), string(filter.VideoID))
	if err != nil {
		return nil, fmt.Errorf("querying embeddings: %w", err)
	}
	defer rows.Close()

	var (
		chunks     []domain.Chunk
		candidates []similarity.Scored
	)
	for rows.Next() {
		var (
			chunk        domain.Chunk
			videoID      string
			metadataJSON string
			blob         []byte
		)
		if err := rows.Scan(&chunk.ID, &videoID, &chunk.Content, &chunk.Position, &metadataJSON, &blob); err != nil {
			return nil, fmt.Errorf("scanning embedding: %w", err)
		}
		chunk.VideoID = domain.VideoRef(videoID)
		if chunk.Metadata, err = decodeMetadata(metadataJSON); err != nil {
			return nil, err
		}

		candidates = append(candidates, similarity.Scored{
			Index: len(chunks),
			Score: similarity.Cosine(query, bytesToFloat32Slice(blob)),
		})
		chunks = append(chunks, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating embeddings: %w", err)
	}

	top := similarity.TopK(candidates, k)
	hits := make([]driven.VectorHit, len(top))
	for i, c := range top {
		hits[i] = driven.VectorHit{Chunk: chunks[c.Index], Similarity: c.Score}
	}
	return hits, nil
}

// Count returns the number of rows matching filter.
func (v *vectorIndex) Count(ctx context.Context, filter domain.Filter) (int, error) {
	var n int
	err := v.store.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM embeddings
		WHERE collection = ? AND (? = '' OR video_id = ?)
	`, v.store.collection, string(filter.VideoID), string(filter.VideoID)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting embeddings: %w", err)
	}
	return n, nil
}

// Dimension returns the collection's vector size, zero when empty.
func (v *vectorIndex) Dimension(ctx context.Context) (int, error) {
	return dimension(ctx, v.store.db, v.store.collection)
}

// Reset drops the collection. The next Add recreates it.
func (v *vectorIndex) Reset(ctx context.Context) error {
	tx, err := v.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM embeddings WHERE collection = ?", v.store.collection); err != nil {
		return fmt.Errorf("deleting embeddings: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM collections WHERE name = ?", v.store.collection); err != nil {
		return fmt.Errorf("deleting collection: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Close closes the underlying store.
func (v *vectorIndex) Close() error {
	return v.store.Close()
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func dimension(ctx context.Context, q queryRower, collection string) (int, error) {
	var dim int
	err := q.QueryRowContext(ctx, "SELECT dimension FROM collections WHERE name = ?", collection).Scan(&dim)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading collection dimension: %w", err)
	}
	return dim, nil
}

// ==================== Transcript Store ====================

// transcriptStore implements driven.TranscriptStore.
type transcriptStore struct {
	store *Store
}

var _ driven.TranscriptStore = (*transcriptStore)(nil)

// Get returns a cached transcript or domain.ErrNotFound.
func (s *transcriptStore) Get(ctx context.Context, videoID domain.VideoRef) (*domain.Transcript, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT video_id, content, language, translated, metadata
		FROM transcripts WHERE video_id = ?
	`, string(videoID))

	var (
		t            domain.Transcript
		id           string
		metadataJSON string
	)
	if err := row.Scan(&id, &t.Content, &t.Language, &t.Translated, &metadataJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning transcript: %w", err)
	}
	t.VideoID = domain.VideoRef(id)

	metadata, err := decodeMetadata(metadataJSON)
	if err != nil {
		return nil, err
	}
	t.Metadata = metadata

	return &t, nil
}

// Save stores or replaces a transcript.
func (s *transcriptStore) Save(ctx context.Context, t *domain.Transcript) error {
	metadataJSON, err := json.Marshal(t.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO transcripts (video_id, content, language, translated, metadata, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(video_id) DO UPDATE SET
			content = excluded.content,
			language = excluded.language,
			translated = excluded.translated,
			metadata = excluded.metadata,
			fetched_at = excluded.fetched_at
	`, string(t.VideoID), t.Content, t.Language, t.Translated, string(metadataJSON), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving transcript: %w", err)
	}
	return nil
}

// ==================== Helpers ====================

// decodeMetadata unmarshals a metadata column, keeping whole numbers as int.
func decodeMetadata(raw string) (map[string]any, error) {
	metadata := make(map[string]any)
	if raw == "" || raw == "null" {
		return metadata, nil
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	if err := dec.Decode(&metadata); err != nil {
		return nil, fmt.Errorf("unmarshalling metadata: %w", err)
	}

	for k, v := range metadata {
		n, ok := v.(json.Number)
		if !ok {
			continue
		}
		if i, err := n.Int64(); err == nil {
			metadata[k] = int(i)
		} else if f, err := n.Float64(); err == nil {
			metadata[k] = f
		}
	}
	if metadata == nil {
		metadata = make(map[string]any)
	}
	return metadata, nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// Package postgres stores the vector collection in PostgreSQL with pgvector.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/custodia-labs/ytqa/internal/core/domain"
	"github.com/custodia-labs/ytqa/internal/core/ports/driven"
)

// DefaultCollection is the table holding the collection.
const DefaultCollection = "yt_store"

var collectionRe = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is a pgvector-backed driven.VectorIndex.
// The collection's dimension is recorded in ytqa_collections.
type VectorIndex struct {
	pool       *pgxpool.Pool
	collection string
	table      string
}

// NewVectorIndex connects to connStr and ensures the schema exists.
func NewVectorIndex(ctx context.Context, connStr, collection string) (*VectorIndex, error) {
	if collection == "" {
		collection = DefaultCollection
	}
	if !collectionRe.MatchString(collection) {
		return nil, fmt.Errorf("%w: collection name %q", domain.ErrInvalidInput, collection)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	v := &VectorIndex{
		pool:       pool,
		collection: collection,
		table:      pgx.Identifier{collection}.Sanitize(),
	}
	if err := v.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return v, nil
}

func (v *VectorIndex) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS ytqa_collections (
			name       TEXT PRIMARY KEY,
			dimension  INTEGER NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + v.table + ` (
			chunk_id  TEXT PRIMARY KEY,
			video_id  TEXT NOT NULL,
			content   TEXT NOT NULL,
			position  INTEGER NOT NULL,
			metadata  JSONB NOT NULL DEFAULT '{}',
			embedding vector NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS ` + pgx.Identifier{v.collection + "_video_idx"}.Sanitize() +
			` ON ` + v.table + ` (video_id)`,
	}
	for _, stmt := range stmts {
		if _, err := v.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

// Add replaces the stored chunks of the entries' videos in one transaction.
func (v *VectorIndex) Add(ctx context.Context, entries []domain.IndexedEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := v.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	dim, err := dimension(ctx, tx, v.collection)
	if err != nil {
		return err
	}
	if dim == 0 {
		dim = len(entries[0].Embedding)
		if dim == 0 {
			return fmt.Errorf("%w: empty embedding", domain.ErrInvalidInput)
		}
		if _, err := tx.Exec(ctx,
			"INSERT INTO ytqa_collections (name, dimension) VALUES ($1, $2)", v.collection, dim); err != nil {
			return fmt.Errorf("creating collection: %w", err)
		}
	}

	batch := &pgx.Batch{}
	for _, video := range domain.EntryVideos(entries) {
		batch.Queue(`DELETE FROM `+v.table+` WHERE video_id = $1`, string(video))
	}
	for _, e := range entries {
		if len(e.Embedding) != dim {
			return &domain.DimensionMismatchError{Expected: dim, Got: len(e.Embedding)}
		}
		metadataJSON, err := json.Marshal(e.Chunk.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling metadata: %w", err)
		}
		batch.Queue(`
			INSERT INTO `+v.table+` (chunk_id, video_id, content, position, metadata, embedding)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (chunk_id) DO UPDATE SET
				video_id = EXCLUDED.video_id,
				content = EXCLUDED.content,
				position = EXCLUDED.position,
				metadata = EXCLUDED.metadata,
				embedding = EXCLUDED.embedding
		`, e.Chunk.ID, string(e.Chunk.VideoID), e.Chunk.Content, e.Chunk.Position,
			string(metadataJSON), pgvector.NewVector(e.Embedding))
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("saving embeddings: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Search orders rows by cosine distance to query.
func (v *VectorIndex) Search(ctx context.Context, query []float32, k int, filter domain.Filter) ([]driven.VectorHit, error) {
	dim, err := dimension(ctx, v.pool, v.collection)
	if err != nil {
		return nil, err
	}
	if dim == 0 || k <= 0 {
		return []driven.VectorHit{}, nil
	}
	if len(query) != dim {
		return nil, &domain.DimensionMismatchError{Expected: dim, Got: len(query)}
	}

	rows, err := v.pool.Query(ctx, `
		SELECT chunk_id, video_id, content, position, metadata, 1 - (embedding <=> $1) AS similarity
		FROM `+v.table+`
		WHERE $2 = '' OR video_id = $2
		ORDER BY embedding <=> $1
		LIMIT $3
	`, pgvector.NewVector(query), string(filter.VideoID), k)
	if err != nil {
		return nil, fmt.Errorf("querying embeddings: %w", err)
	}
	defer rows.Close()

	hits := []driven.VectorHit{}
	for rows.Next() {
		var (
			hit      driven.VectorHit
			videoID  string
			metadata map[string]any
		)
		if err := rows.Scan(&hit.Chunk.ID, &videoID, &hit.Chunk.Content, &hit.Chunk.Position,
			&metadata, &hit.Similarity); err != nil {
			return nil, fmt.Errorf("scanning embedding: %w", err)
		}
		hit.Chunk.VideoID = domain.VideoRef(videoID)
		hit.Chunk.Metadata = wholeNumbersToInt(metadata)
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating embeddings: %w", err)
	}
	return hits, nil
}

// Count returns the number of rows matching filter.
func (v *VectorIndex) Count(ctx context.Context, filter domain.Filter) (int, error) {
	var n int
	err := v.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM `+v.table+` WHERE $1 = '' OR video_id = $1`,
		string(filter.VideoID)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting embeddings: %w", err)
	}
	return n, nil
}

// Dimension returns the collection's vector size, zero when empty.
func (v *VectorIndex) Dimension(ctx context.Context) (int, error) {
	return dimension(ctx, v.pool, v.collection)
}

// Reset empties the collection table and forgets its dimension.
func (v *VectorIndex) Reset(ctx context.Context) error {
	tx, err := v.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "TRUNCATE "+v.table); err != nil {
		return fmt.Errorf("truncating collection: %w", err)
	}
	if _, err := tx.Exec(ctx, "DELETE FROM ytqa_collections WHERE name = $1", v.collection); err != nil {
		return fmt.Errorf("deleting collection: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (v *VectorIndex) Close() error {
	v.pool.Close()
	return nil
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func dimension(ctx context.Context, q rowQuerier, collection string) (int, error) {
	var dim int
	err := q.QueryRow(ctx, "SELECT dimension FROM ytqa_collections WHERE name = $1", collection).Scan(&dim)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading collection dimension: %w", err)
	}
	return dim, nil
}

// wholeNumbersToInt turns JSON numbers without a fraction back into int.
func wholeNumbersToInt(m map[string]any) map[string]any {
	if m == nil {
		return make(map[string]any)
	}
	for k, v := range m {
		if f, ok := v.(float64); ok && f == math.Trunc(f) && math.Abs(f) < math.MaxInt32 {
			m[k] = int(f)
		}
	}
	return m
}

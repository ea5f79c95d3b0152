// Package sqlite provides a SQLite-backed vector store. Chunks and
// their embeddings are persisted in a single-file database, and
// similarity queries are answered with an exhaustive cosine scan. The
// corpora this agent indexes are small enough that a brute-force scan
// stays well under interactive latency; an ANN index would be
// premature.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/albertobertheau/lola-agent-app/internal/adapters/driven/vectorstore/sqlite/migrations"
	"github.com/albertobertheau/lola-agent-app/internal/core/domain"
	"github.com/albertobertheau/lola-agent-app/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// dbFileName is the database file created inside the data directory.
const dbFileName = "index.db"

// Store persists chunks with embeddings in SQLite. The embedder is
// applied on write and on query, so callers deal in plain text only.
type Store struct {
	db       *sql.DB
	path     string
	embedder driven.EmbeddingService
}

// Config holds configuration for the SQLite vector store.
type Config struct {
	// DataDir is the directory holding the database file. If empty,
	// defaults to ~/.lola/data.
	DataDir string

	// Embedder generates vectors for chunk content and query text
	// (required).
	Embedder driven.EmbeddingService

	// Fresh discards any existing database file before opening, so the
	// index is rebuilt from scratch.
	Fresh bool
}

// NewStore opens (or creates) the vector store.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Embedder == nil {
		return nil, fmt.Errorf("sqlite: embedder is required")
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".lola", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFileName)

	if cfg.Fresh {
		if err := removeDatabase(dbPath); err != nil {
			return nil, fmt.Errorf("discarding previous index: %w", err)
		}
	}

	// WAL mode so background sync writes don't block reads.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:       db,
		path:     dbPath,
		embedder: cfg.Embedder,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// removeDatabase deletes the database file and its WAL sidecars.
func removeDatabase(dbPath string) error {
	for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

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
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
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

// Add stores a chunk. Fails if the chunk ID already exists.
func (s *Store) Add(ctx context.Context, chunk domain.Chunk) error {
	embedding, err := s.embeddingFor(ctx, chunk)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO chunks (id, content, file_id, file_name, mime_type, embedding)
		VALUES (?, ?, ?, ?, ?, ?)
	`, chunk.ID, chunk.Content, chunk.Metadata.FileID, chunk.Metadata.FileName,
		chunk.Metadata.MIMEType, float32SliceToBytes(embedding))

	if err != nil {
		return fmt.Errorf("adding chunk %s: %w", chunk.ID, err)
	}
	return nil
}

// Upsert stores a chunk, replacing any existing chunk with the same ID.
func (s *Store) Upsert(ctx context.Context, chunk domain.Chunk) error {
	embedding, err := s.embeddingFor(ctx, chunk)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO chunks (id, content, file_id, file_name, mime_type, embedding)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			content = excluded.content,
			file_id = excluded.file_id,
			file_name = excluded.file_name,
			mime_type = excluded.mime_type,
			embedding = excluded.embedding,
			indexed_at = CURRENT_TIMESTAMP
	`, chunk.ID, chunk.Content, chunk.Metadata.FileID, chunk.Metadata.FileName,
		chunk.Metadata.MIMEType, float32SliceToBytes(embedding))

	if err != nil {
		return fmt.Errorf("upserting chunk %s: %w", chunk.ID, err)
	}
	return nil
}

// embeddingFor returns the chunk's embedding, generating it from the
// content when the caller didn't supply one.
func (s *Store) embeddingFor(ctx context.Context, chunk domain.Chunk) ([]float32, error) {
	if len(chunk.Embedding) > 0 {
		return chunk.Embedding, nil
	}
	embedding, err := s.embedder.Embed(ctx, chunk.Content)
	if err != nil {
		return nil, fmt.Errorf("embedding chunk %s: %w", chunk.ID, err)
	}
	return embedding, nil
}

// Query returns the n most similar chunks to the query text, most
// similar first.
func (s *Store) Query(ctx context.Context, text string, n int) ([]domain.ScoredChunk, error) {
	if n <= 0 {
		return []domain.ScoredChunk{}, nil
	}

	queryVec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content, file_id, file_name, mime_type, embedding
		FROM chunks
	`)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var scored []domain.ScoredChunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.Chunk
		var embeddingBlob []byte
		if err := rows.Scan(&chunk.ID, &chunk.Content, &chunk.Metadata.FileID,
			&chunk.Metadata.FileName, &chunk.Metadata.MIMEType, &embeddingBlob); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunk.Embedding = bytesToFloat32Slice(embeddingBlob)

		scored = append(scored, domain.ScoredChunk{
			Chunk: chunk,
			Score: cosineSimilarity(queryVec, chunk.Embedding),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > n {
		scored = scored[:n]
	}
	if scored == nil {
		scored = []domain.ScoredChunk{}
	}
	return scored, nil
}

// DeleteByFile removes every chunk whose file ID matches.
func (s *Store) DeleteByFile(ctx context.Context, fileID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM chunks WHERE file_id = ?", fileID)
	if err != nil {
		return fmt.Errorf("deleting chunks for file %s: %w", fileID, err)
	}
	return nil
}

// Count returns the total number of indexed chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return count, nil
}

// FileNames returns the distinct source document names, sorted.
func (s *Store) FileNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT file_name FROM chunks ORDER BY file_name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying file names: %w", err)
	}
	defer rows.Close()

	var names []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning file name: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating file names: %w", err)
	}

	return names, nil
}

// ==================== Helper Functions ====================

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

// cosineSimilarity computes the cosine of the angle between two
// vectors. Mismatched or zero-length vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

package driven

import (
	"context"

	"github.com/albertobertheau/lola-agent-app/internal/core/domain"
)

// VectorStore persists text chunks with metadata and supports
// similarity query, upsert and delete-by-file. Embedding of both
// chunks and query text happens inside the store, so callers deal in
// plain text only.
type VectorStore interface {
	// Add stores a chunk. Fails if the chunk ID already exists.
	Add(ctx context.Context, chunk domain.Chunk) error

	// Upsert stores a chunk, replacing any existing chunk with the
	// same ID. Used by initial population so re-runs are idempotent.
	Upsert(ctx context.Context, chunk domain.Chunk) error

	// Query returns the n most similar chunks to the query text, most
	// similar first. Returns an empty slice on no match.
	Query(ctx context.Context, text string, n int) ([]domain.ScoredChunk, error)

	// DeleteByFile removes every chunk whose metadata file ID matches.
	// Deleting a file with no chunks is not an error.
	DeleteByFile(ctx context.Context, fileID string) error

	// Count returns the total number of indexed chunks.
	Count(ctx context.Context) (int, error)

	// FileNames returns the distinct source document names in the
	// store, sorted.
	FileNames(ctx context.Context) ([]string, error)

	// Close releases resources.
	Close() error
}

// EmbeddingService generates vector embeddings for text.
//
// Implementations may include:
//   - OpenAI embedding API
//   - Local deterministic embedder (offline fallback)
type EmbeddingService interface {
	// Embed generates an embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int

	// Ping validates the service is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

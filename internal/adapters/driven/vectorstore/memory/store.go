// Package memory provides an in-memory vector store, used for tests
// and for ephemeral runs where persistence is not wanted.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/albertobertheau/lola-agent-app/internal/core/domain"
	"github.com/albertobertheau/lola-agent-app/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store is an in-memory implementation of driven.VectorStore.
type Store struct {
	mu       sync.RWMutex
	chunks   map[string]domain.Chunk
	order    []string
	embedder driven.EmbeddingService
}

// NewStore creates an in-memory vector store backed by the given
// embedder.
func NewStore(embedder driven.EmbeddingService) *Store {
	return &Store{
		chunks:   make(map[string]domain.Chunk),
		embedder: embedder,
	}
}

// Add stores a chunk. Fails if the chunk ID already exists.
func (s *Store) Add(ctx context.Context, chunk domain.Chunk) error {
	if err := s.ensureEmbedding(ctx, &chunk); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.chunks[chunk.ID]; exists {
		return fmt.Errorf("memory: chunk %s already exists", chunk.ID)
	}
	s.chunks[chunk.ID] = chunk
	s.order = append(s.order, chunk.ID)
	return nil
}

// Upsert stores a chunk, replacing any existing chunk with the same ID.
func (s *Store) Upsert(ctx context.Context, chunk domain.Chunk) error {
	if err := s.ensureEmbedding(ctx, &chunk); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.chunks[chunk.ID]; !exists {
		s.order = append(s.order, chunk.ID)
	}
	s.chunks[chunk.ID] = chunk
	return nil
}

// ensureEmbedding fills in the chunk's embedding when the caller
// didn't supply one.
func (s *Store) ensureEmbedding(ctx context.Context, chunk *domain.Chunk) error {
	if len(chunk.Embedding) > 0 {
		return nil
	}
	embedding, err := s.embedder.Embed(ctx, chunk.Content)
	if err != nil {
		return fmt.Errorf("embedding chunk %s: %w", chunk.ID, err)
	}
	chunk.Embedding = embedding
	return nil
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

	s.mu.RLock()
	defer s.mu.RUnlock()

	scored := make([]domain.ScoredChunk, 0, len(s.order))
	for _, id := range s.order {
		chunk := s.chunks[id]
		scored = append(scored, domain.ScoredChunk{
			Chunk: chunk,
			Score: cosineSimilarity(queryVec, chunk.Embedding),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > n {
		scored = scored[:n]
	}
	return scored, nil
}

// DeleteByFile removes every chunk whose file ID matches.
func (s *Store) DeleteByFile(_ context.Context, fileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.order[:0]
	for _, id := range s.order {
		if s.chunks[id].Metadata.FileID == fileID {
			delete(s.chunks, id)
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
	return nil
}

// Count returns the total number of indexed chunks.
func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}

// FileNames returns the distinct source document names, sorted.
func (s *Store) FileNames(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var names []string
	for _, chunk := range s.chunks {
		name := chunk.Metadata.FileName
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
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

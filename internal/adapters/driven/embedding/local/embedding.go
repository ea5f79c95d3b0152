// Package local provides a deterministic offline embedding service.
// It hashes word n-grams into a fixed-size vector and L2-normalises
// the result, so cosine similarity still reflects lexical overlap.
// Quality is far below a real embedding model; it exists so the agent
// stays usable without an embedding API key and so tests can run
// hermetically.
package local

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	"github.com/albertobertheau/lola-agent-app/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultDimensions is the vector size of the hashed embedding.
const DefaultDimensions = 384

// EmbeddingService generates deterministic embeddings by feature
// hashing.
type EmbeddingService struct {
	dimensions int
}

// NewEmbeddingService creates a local embedder. Non-positive
// dimensions fall back to the default.
func NewEmbeddingService(dimensions int) *EmbeddingService {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &EmbeddingService{dimensions: dimensions}
}

// Embed generates the embedding for the given text. The same text
// always yields the same vector.
func (s *EmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, s.dimensions)

	words := strings.Fields(strings.ToLower(text))
	for i, word := range words {
		s.addFeature(vec, word)
		// Bigrams capture a little word order.
		if i+1 < len(words) {
			s.addFeature(vec, word+" "+words[i+1])
		}
	}

	normalise(vec)
	return vec, nil
}

// addFeature hashes a token into a bucket with a hash-derived sign, a
// standard feature-hashing construction.
func (s *EmbeddingService) addFeature(vec []float32, token string) {
	h := fnv.New64a()
	h.Write([]byte(token))
	sum := h.Sum64()

	bucket := int(sum % uint64(s.dimensions))
	if sum&(1<<63) != 0 {
		vec[bucket]--
	} else {
		vec[bucket]++
	}
}

// normalise scales the vector to unit length. The zero vector is left
// untouched.
func normalise(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// Ping always succeeds: there is no external service.
func (s *EmbeddingService) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

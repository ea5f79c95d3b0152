package domain

import (
	"fmt"
	"time"
)

// Document represents a file in the remote knowledge corpus.
// It is owned by the file store; the agent only caches derived chunks.
type Document struct {
	// FileID is the opaque identifier assigned by the file store.
	// It is stable across versions of the same file.
	FileID string

	// Name is the human-readable file name.
	Name string

	// MIMEType is the file store's MIME type for the file.
	MIMEType string

	// ModifiedTime is when the file was last modified in the store.
	ModifiedTime time.Time
}

// ChunkMetadata identifies the document a chunk was derived from.
type ChunkMetadata struct {
	FileID   string
	FileName string
	MIMEType string
}

// Chunk is a bounded word-window of a document's text, the unit of
// indexing and retrieval.
type Chunk struct {
	// ID is derived deterministically from the file ID and the chunk's
	// sequence index, so re-chunking unchanged content re-derives the
	// same IDs.
	ID string

	// Content is the chunk text.
	Content string

	// Metadata links the chunk back to its source document.
	Metadata ChunkMetadata

	// Embedding is the vector representation, populated by the store.
	Embedding []float32
}

// ChunkID derives the canonical chunk identifier for a file and
// sequence index.
func ChunkID(fileID string, index int) string {
	return fmt.Sprintf("%s-%d", fileID, index)
}

// ScoredChunk is a chunk with its similarity score from a vector query.
type ScoredChunk struct {
	Chunk
	Score float64
}

// RetrievedChunk is one element of a retrieval result: chunk content
// paired with the name of the document it came from.
type RetrievedChunk struct {
	Content  string
	FileName string
}

// RetrievalResult is the outcome of a retrieval operation: the
// deduplicated context chunks in first-occurrence order, and the
// synthesised answer when synthesis was requested.
type RetrievalResult struct {
	Chunks []RetrievedChunk
	Answer string
}

// Sources returns the distinct document names contributing to the
// result, in first-occurrence order.
func (r RetrievalResult) Sources() []string {
	seen := make(map[string]bool)
	var names []string
	for _, c := range r.Chunks {
		if c.FileName == "" || seen[c.FileName] {
			continue
		}
		seen[c.FileName] = true
		names = append(names, c.FileName)
	}
	return names
}

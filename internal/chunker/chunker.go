// Package chunker splits document text into overlapping word windows
// suitable for embedding and similarity search.
package chunker

import (
	"strings"

	"github.com/albertobertheau/lola-agent-app/internal/core/domain"
	"github.com/albertobertheau/lola-agent-app/internal/core/ports/driven"
)

const (
	// DefaultWindowWords is the number of words per chunk.
	DefaultWindowWords = 1000

	// DefaultOverlapWords is the number of words shared between
	// consecutive chunks.
	DefaultOverlapWords = 100
)

// WordWindow chunks text into fixed-size word windows with overlap.
// Chunk IDs are deterministic: re-chunking the same file yields the
// same IDs, so re-indexing replaces rather than duplicates.
type WordWindow struct {
	windowWords  int
	overlapWords int
}

// Interface guard.
var _ driven.TextChunker = (*WordWindow)(nil)

// NewWordWindow creates a chunker with the given window and overlap
// sizes. Non-positive values fall back to the defaults; an overlap
// equal to or larger than the window is clamped below it so the
// window always advances.
func NewWordWindow(windowWords, overlapWords int) *WordWindow {
	if windowWords <= 0 {
		windowWords = DefaultWindowWords
	}
	if overlapWords <= 0 {
		overlapWords = DefaultOverlapWords
	}
	if overlapWords >= windowWords {
		overlapWords = windowWords - 1
	}
	return &WordWindow{windowWords: windowWords, overlapWords: overlapWords}
}

// Chunk splits text into overlapping windows of words. Empty or
// whitespace-only text yields no chunks.
func (w *WordWindow) Chunk(doc domain.Document, text string) []domain.Chunk {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	meta := domain.ChunkMetadata{
		FileID:   doc.FileID,
		FileName: doc.Name,
		MIMEType: doc.MIMEType,
	}

	step := w.windowWords - w.overlapWords
	var chunks []domain.Chunk
	for start, index := 0, 0; start < len(words); start, index = start+step, index+1 {
		end := start + w.windowWords
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, domain.Chunk{
			ID:       domain.ChunkID(doc.FileID, index),
			Content:  strings.Join(words[start:end], " "),
			Metadata: meta,
		})
		if end == len(words) {
			break
		}
	}
	return chunks
}

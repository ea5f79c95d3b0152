package driven

import (
	"context"
	"time"

	"github.com/albertobertheau/lola-agent-app/internal/core/domain"
)

// FileStore is the remote document corpus: a folder tree of files that
// can be listed, fetched as text, and - for two named destinations -
// appended to.
type FileStore interface {
	// ListRecursive returns every file under rootID and its sub-folders,
	// excluding folders themselves and trashed files. When modifiedAfter
	// is non-zero, only files modified strictly after it are returned.
	ListRecursive(ctx context.Context, rootID string, modifiedAfter time.Time) ([]domain.Document, error)

	// FetchContent returns the plain-text content of a file, converting
	// store-native formats where the store supports export. Returns
	// domain.ErrUnsupportedType for files with no text extraction path.
	FetchContent(ctx context.Context, doc domain.Document) (string, error)

	// AppendText appends free text to the end of a document.
	AppendText(ctx context.Context, docID, text string) error

	// AppendRow appends an ordered row of values to a tabular document.
	AppendRow(ctx context.Context, sheetID string, values []string) error
}

// TextChunker splits extracted text into indexable chunks with
// deterministic IDs derived from the source document.
type TextChunker interface {
	// Chunk splits text into overlapping windows and labels each chunk
	// with the document's metadata. Empty text produces no chunks.
	Chunk(doc domain.Document, text string) []domain.Chunk
}

package driving

import (
	"context"

	"github.com/albertobertheau/lola-agent-app/internal/core/domain"
)

// Ingestor maintains the vector store against the remote file store.
type Ingestor interface {
	// Populate runs the initial full indexing of the corpus.
	Populate(ctx context.Context) (*domain.SyncRun, error)

	// Sync re-indexes files modified since the last checkpoint.
	Sync(ctx context.Context) (*domain.SyncRun, error)

	// State reports where the ingestion lifecycle currently is.
	State() domain.IngestState
}

// Retriever performs grounded retrieval against the vector store.
type Retriever interface {
	// Retrieve runs the full pipeline - correction, expansion, fan-out,
	// deduplication and synthesis - and returns the answer with its
	// supporting context.
	Retrieve(ctx context.Context, query string, n int) (domain.RetrievalResult, error)

	// GatherContext runs correction, expansion and deduplicated fan-out
	// without synthesis, for tools that build their own prompts.
	GatherContext(ctx context.Context, query string, n int) ([]domain.RetrievedChunk, error)
}

package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/albertobertheau/lola-agent-app/internal/core/domain"
	"github.com/albertobertheau/lola-agent-app/internal/core/ports/driven"
	"github.com/albertobertheau/lola-agent-app/internal/core/ports/driving"
	"github.com/albertobertheau/lola-agent-app/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.Ingestor = (*IngestService)(nil)

// IngestService maintains the vector store against the remote folder
// tree: initial population, then incremental sync passes driven by a
// modification-time checkpoint.
//
// The checkpoint advances to the time a pass STARTED listing, never to
// the time it finished: a file modified while a pass runs falls after
// the new checkpoint and is caught by the next pass.
type IngestService struct {
	fileStore   driven.FileStore
	vectorStore driven.VectorStore
	chunker     driven.TextChunker
	rootID      string

	mu         sync.Mutex
	state      domain.IngestState
	checkpoint time.Time
}

// NewIngestService creates an ingestion service rooted at the given
// remote folder.
func NewIngestService(
	fileStore driven.FileStore,
	vectorStore driven.VectorStore,
	chunker driven.TextChunker,
	rootID string,
) *IngestService {
	return &IngestService{
		fileStore:   fileStore,
		vectorStore: vectorStore,
		chunker:     chunker,
		rootID:      rootID,
		state:       domain.IngestStateEmpty,
	}
}

// State reports where the ingestion lifecycle currently is.
func (s *IngestService) State() domain.IngestState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Checkpoint returns the current sync checkpoint.
func (s *IngestService) Checkpoint() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkpoint
}

// Populate runs the initial full indexing of the corpus. Chunks are
// upserted so re-running population with unchanged files yields the
// same final set of chunk IDs.
func (s *IngestService) Populate(ctx context.Context) (*domain.SyncRun, error) {
	if err := s.transition(domain.IngestStateEmpty, domain.IngestStatePopulating); err != nil {
		return nil, err
	}

	logger.Section("Initial Population")
	started := time.Now()

	run, err := s.indexPass(ctx, time.Time{}, false)
	if err != nil {
		s.setState(domain.IngestStateEmpty)
		return nil, err
	}

	s.completePass(started)
	logger.Info("Population complete: %d files, %d chunks, %d skipped",
		run.FilesProcessed, run.ChunksIndexed, run.FilesSkipped)
	return run, nil
}

// Sync re-indexes files modified after the checkpoint. Existing
// chunks of each modified file are deleted before its new content is
// added, so stale chunks never survive an update. An empty listing
// still advances the checkpoint.
func (s *IngestService) Sync(ctx context.Context) (*domain.SyncRun, error) {
	if err := s.transition(domain.IngestStateReady, domain.IngestStateSyncing); err != nil {
		return nil, err
	}

	logger.Section("Sync")
	started := time.Now()

	run, err := s.indexPass(ctx, s.Checkpoint(), true)
	if err != nil {
		s.setState(domain.IngestStateReady)
		return nil, err
	}

	s.completePass(started)
	logger.Info("Sync complete: %d files re-indexed, %d chunks", run.FilesProcessed, run.ChunksIndexed)
	return run, nil
}

// indexPass lists, filters, extracts, chunks and indexes. When
// replace is set, a file's prior chunks are deleted before re-adding.
func (s *IngestService) indexPass(ctx context.Context, modifiedAfter time.Time, replace bool) (*domain.SyncRun, error) {
	run := &domain.SyncRun{ID: uuid.NewString(), StartedAt: time.Now()}

	files, err := s.fileStore.ListRecursive(ctx, s.rootID, modifiedAfter)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	logger.Info("Found %d files to process", len(files))

	for _, doc := range files {
		if SkipFile(doc) {
			logger.Debug("Skipping configuration file: %s", doc.Name)
			run.FilesSkipped++
			continue
		}

		if replace {
			// Non-fatal: the file may simply have no prior chunks.
			if err := s.vectorStore.DeleteByFile(ctx, doc.FileID); err != nil {
				logger.Warn("Could not delete prior chunks of %s: %v", doc.Name, err)
			}
		}

		n, err := s.indexFile(ctx, doc)
		if err != nil {
			logger.Warn("Failed to index %s: %v", doc.Name, err)
			run.Errors++
			continue
		}

		run.FilesProcessed++
		run.ChunksIndexed += n
	}

	run.EndedAt = time.Now()
	return run, nil
}

// indexFile extracts, chunks and upserts a single document.
func (s *IngestService) indexFile(ctx context.Context, doc domain.Document) (int, error) {
	logger.Debug("Processing: %s", doc.Name)

	text, err := s.fileStore.FetchContent(ctx, doc)
	if err != nil {
		return 0, fmt.Errorf("fetch content: %w", err)
	}

	chunks := s.chunker.Chunk(doc, text)
	for _, chunk := range chunks {
		if err := s.vectorStore.Upsert(ctx, chunk); err != nil {
			return 0, fmt.Errorf("upsert chunk %s: %w", chunk.ID, err)
		}
	}
	return len(chunks), nil
}

// transition atomically moves the lifecycle from one state to another,
// rejecting concurrent passes.
func (s *IngestService) transition(from, to domain.IngestState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != from {
		if s.state == domain.IngestStatePopulating || s.state == domain.IngestStateSyncing {
			return domain.ErrSyncInProgress
		}
		return fmt.Errorf("ingest state is %s, expected %s", s.state, from)
	}
	s.state = to
	return nil
}

// completePass marks the store ready and advances the checkpoint to
// the pass's listing start time.
func (s *IngestService) completePass(started time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = domain.IngestStateReady
	s.checkpoint = started
}

func (s *IngestService) setState(state domain.IngestState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// SkipFile reports whether a file is excluded from indexing. JSON
// files hold configuration, not knowledge.
func SkipFile(doc domain.Document) bool {
	return doc.MIMEType == "application/json" ||
		strings.HasSuffix(strings.ToLower(doc.Name), ".json")
}

package domain

import "time"

// IngestState tracks where the knowledge base is in its lifecycle.
// The machine is EMPTY → POPULATING → READY, with READY → SYNCING →
// READY cycles thereafter.
type IngestState string

const (
	// IngestStateEmpty means no population has run yet.
	IngestStateEmpty IngestState = "empty"
	// IngestStatePopulating means the initial full indexing is running.
	IngestStatePopulating IngestState = "populating"
	// IngestStateReady means the index is serving queries.
	IngestStateReady IngestState = "ready"
	// IngestStateSyncing means an incremental pass is running.
	IngestStateSyncing IngestState = "syncing"
)

// SyncRun records the outcome of one population or sync pass.
type SyncRun struct {
	// ID uniquely identifies the run.
	ID string

	// StartedAt is when the pass began. The checkpoint advances to this
	// time after the pass completes, so edits made while the pass was
	// listing are caught by the next pass.
	StartedAt time.Time

	// EndedAt is when the pass finished.
	EndedAt time.Time

	// FilesProcessed counts files successfully re-indexed.
	FilesProcessed int

	// FilesSkipped counts files excluded by the skip rule or with no
	// extractable text.
	FilesSkipped int

	// ChunksIndexed counts chunks written to the vector store.
	ChunksIndexed int

	// Errors counts per-file failures, which are isolated and logged
	// rather than aborting the pass.
	Errors int
}

package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file type with no text extraction path.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrRateLimited indicates the completion capability rejected the
	// call with a quota/429 signature. The assistant translates this
	// into the fixed rate-limit message for the user.
	ErrRateLimited = errors.New("rate limited")

	// ErrCompletionUnavailable indicates the completion capability is
	// not configured. Nothing that needs the model can run without it.
	ErrCompletionUnavailable = errors.New("completion service unavailable")

	// ErrVectorStoreUnavailable indicates the vector store failed to
	// initialise. Retrieval degrades to empty-context answering.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")

	// ErrFileStoreUnavailable indicates the remote file store is not
	// configured or not reachable.
	ErrFileStoreUnavailable = errors.New("file store unavailable")

	// ErrSyncInProgress indicates an ingestion pass is already running.
	ErrSyncInProgress = errors.New("sync in progress")

	// ErrUnknownWritingTarget indicates a writing action named a target
	// outside the known vocabulary.
	ErrUnknownWritingTarget = errors.New("unknown writing target")
)

// IsRateLimited reports whether err carries the quota/429 signature of
// the completion capability or the file store.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

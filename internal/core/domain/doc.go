// Package domain defines the core business entities for the Lola agent.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A file in the remote knowledge corpus
//   - Chunk: A word-window of a document's text, the indexing unit
//   - Category: The routing vocabulary for user queries
//   - WritingAction: A structured write against an external document
//   - SyncRun / IngestState: Ingestion lifecycle tracking
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
package domain

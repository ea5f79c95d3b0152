package mcp

import (
	"github.com/albertobertheau/lola-agent-app/internal/core/ports/driven"
	"github.com/albertobertheau/lola-agent-app/internal/core/ports/driving"
)

// Ports aggregates all port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Assistant answers natural-language queries.
	Assistant driving.Assistant

	// Retriever exposes raw context retrieval without synthesis.
	Retriever driving.Retriever

	// Index is the vector store, used for corpus resources.
	Index driven.VectorStore
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Assistant == nil {
		return ErrMissingAssistant
	}
	// Retriever and Index are optional
	return nil
}

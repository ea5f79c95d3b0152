// Package mcp provides an MCP (Model Context Protocol) server adapter for Lola.
// It enables AI assistants to query the indexed document corpus and ask
// grounded questions through Lola's retrieval pipeline.
package mcp

import "errors"

// ErrMissingAssistant is returned when the assistant service is not provided.
var ErrMissingAssistant = errors.New("mcp: assistant service is required")

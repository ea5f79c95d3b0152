package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// defaultRetrieveLimit bounds the retrieve tool when no limit is given.
const defaultRetrieveLimit = 5

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Query string `json:"query" jsonschema:"the natural-language question or instruction for Lola"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer string `json:"answer"`
}

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Query string `json:"query" jsonschema:"the query to retrieve document context for"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of chunks to return (default 5)"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Chunks []RetrievedChunkOutput `json:"chunks"`
	Count  int                    `json:"count"`
}

// RetrievedChunkOutput represents one retrieved context chunk.
type RetrievedChunkOutput struct {
	Content  string `json:"content"`
	FileName string `json:"file_name"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask Lola a question answered from the indexed document corpus",
	}, s.handleAsk)

	if s.ports.Retriever != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "retrieve",
			Description: "Retrieve raw document context for a query, without answer synthesis",
		}, s.handleRetrieve)
	}
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer := s.ports.Assistant.AnswerQuery(ctx, input.Query)
	return nil, AskOutput{Answer: answer}, nil
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultRetrieveLimit
	}

	chunks, err := s.ports.Retriever.GatherContext(ctx, input.Query, limit)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Chunks: make([]RetrievedChunkOutput, len(chunks)),
		Count:  len(chunks),
	}
	for i := range chunks {
		output.Chunks[i] = RetrievedChunkOutput{
			Content:  chunks[i].Content,
			FileName: chunks[i].FileName,
		}
	}

	return nil, output, nil
}

package mcp

import (
	"context"

	"github.com/albertobertheau/lola-agent-app/internal/core/domain"
)

// mockAssistant is a mock implementation of driving.Assistant.
type mockAssistant struct {
	answer  string
	queries []string
}

func (m *mockAssistant) AnswerQuery(_ context.Context, query string) string {
	m.queries = append(m.queries, query)
	return m.answer
}

func (m *mockAssistant) ExecuteWriting(_ context.Context, instruction string) string {
	m.queries = append(m.queries, instruction)
	return m.answer
}

// mockRetriever is a mock implementation of driving.Retriever.
type mockRetriever struct {
	chunks []domain.RetrievedChunk
	err    error
	limits []int
}

func (m *mockRetriever) Retrieve(_ context.Context, _ string, n int) (domain.RetrievalResult, error) {
	m.limits = append(m.limits, n)
	return domain.RetrievalResult{Chunks: m.chunks}, m.err
}

func (m *mockRetriever) GatherContext(_ context.Context, _ string, n int) ([]domain.RetrievedChunk, error) {
	m.limits = append(m.limits, n)
	return m.chunks, m.err
}

// mockIndex is a mock vector store exposing only what resources need.
type mockIndex struct {
	names []string
	count int
	err   error
}

func (m *mockIndex) Add(_ context.Context, _ domain.Chunk) error    { return nil }
func (m *mockIndex) Upsert(_ context.Context, _ domain.Chunk) error { return nil }

func (m *mockIndex) Query(_ context.Context, _ string, _ int) ([]domain.ScoredChunk, error) {
	return nil, nil
}

func (m *mockIndex) DeleteByFile(_ context.Context, _ string) error { return nil }

func (m *mockIndex) Count(_ context.Context) (int, error) {
	return m.count, m.err
}

func (m *mockIndex) FileNames(_ context.Context) ([]string, error) {
	return m.names, m.err
}

func (m *mockIndex) Close() error { return nil }

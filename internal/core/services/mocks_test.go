package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/albertobertheau/lola-agent-app/internal/core/domain"
	"github.com/albertobertheau/lola-agent-app/internal/core/ports/driven"
)

// --- Shared mock implementations for service testing ---

// mockCompletion implements driven.CompletionService with a pluggable
// generate function. Every prompt is recorded.
type mockCompletion struct {
	mu       sync.Mutex
	prompts  []string
	generate func(prompt string) (string, error)
}

func (m *mockCompletion) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	if m.generate == nil {
		return "", nil
	}
	return m.generate(prompt)
}

func (m *mockCompletion) ModelName() string            { return "mock-model" }
func (m *mockCompletion) Ping(_ context.Context) error { return nil }
func (m *mockCompletion) Close() error                 { return nil }

func (m *mockCompletion) promptsMatching(prefix string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, p := range m.prompts {
		if strings.HasPrefix(p, prefix) {
			out = append(out, p)
		}
	}
	return out
}

// mockPrompts implements driven.PromptStore with fixed templates whose
// prefixes identify the step in recorded prompts.
type mockPrompts struct{}

func (mockPrompts) Load(name string) (string, error) {
	switch name {
	case driven.PromptQueryCorrection:
		return "CORRECT: %s", nil
	case driven.PromptQueryAlternatives:
		return "ALTERNATIVES(%d): %s", nil
	case driven.PromptClassify:
		return "CLASSIFY: %s", nil
	case driven.PromptQA:
		return "QA CONTEXT[%s] QUERY[%s]", nil
	case driven.PromptGeneration:
		return "GENERATION CONTEXT[%s] QUERY[%s]", nil
	case driven.PromptAnalysis:
		return "ANALYSIS CONTEXT[%s] QUERY[%s]", nil
	case driven.PromptWriting:
		return "WRITING: %s", nil
	}
	return "", domain.ErrNotFound
}

// queryCall records one similarity search against the mock store.
type queryCall struct {
	text  string
	limit int
}

// mockVectorStore implements driven.VectorStore over an in-memory map.
// Query results are served per query text, with an optional default.
type mockVectorStore struct {
	mu       sync.Mutex
	chunks   map[string]domain.Chunk
	results  map[string][]domain.ScoredChunk
	fallback []domain.ScoredChunk
	queryErr error
	queries  []queryCall
	deleted  []string
}

func newMockVectorStore() *mockVectorStore {
	return &mockVectorStore{
		chunks:  make(map[string]domain.Chunk),
		results: make(map[string][]domain.ScoredChunk),
	}
}

func (m *mockVectorStore) Add(_ context.Context, chunk domain.Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.chunks[chunk.ID]; ok {
		return domain.ErrAlreadyExists
	}
	m.chunks[chunk.ID] = chunk
	return nil
}

func (m *mockVectorStore) Upsert(_ context.Context, chunk domain.Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks[chunk.ID] = chunk
	return nil
}

func (m *mockVectorStore) Query(_ context.Context, text string, n int) ([]domain.ScoredChunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, queryCall{text: text, limit: n})
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if res, ok := m.results[text]; ok {
		return res, nil
	}
	return m.fallback, nil
}

func (m *mockVectorStore) DeleteByFile(_ context.Context, fileID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, fileID)
	for id, chunk := range m.chunks {
		if chunk.Metadata.FileID == fileID {
			delete(m.chunks, id)
		}
	}
	return nil
}

func (m *mockVectorStore) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.chunks), nil
}

func (m *mockVectorStore) FileNames(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]bool)
	var names []string
	for _, chunk := range m.chunks {
		if !seen[chunk.Metadata.FileName] {
			seen[chunk.Metadata.FileName] = true
			names = append(names, chunk.Metadata.FileName)
		}
	}
	return names, nil
}

func (m *mockVectorStore) Close() error { return nil }

func (m *mockVectorStore) chunkIDsForFile(fileID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for id, chunk := range m.chunks {
		if chunk.Metadata.FileID == fileID {
			ids = append(ids, id)
		}
	}
	return ids
}

// listCall records one listing against the mock file store.
type listCall struct {
	rootID        string
	modifiedAfter time.Time
}

// mockFileStore implements driven.FileStore over fixed documents and
// contents. Appends are recorded, not applied.
type mockFileStore struct {
	mu        sync.Mutex
	docs      []domain.Document
	contents  map[string]string
	listErr   error
	appendErr error
	listCalls []listCall
	appended  []struct {
		docID string
		text  string
	}
	rows []struct {
		sheetID string
		values  []string
	}
	listing chan struct{} // when set, ListRecursive blocks until closed
}

func newMockFileStore() *mockFileStore {
	return &mockFileStore{contents: make(map[string]string)}
}

func (m *mockFileStore) ListRecursive(_ context.Context, rootID string, modifiedAfter time.Time) ([]domain.Document, error) {
	m.mu.Lock()
	m.listCalls = append(m.listCalls, listCall{rootID: rootID, modifiedAfter: modifiedAfter})
	blocker := m.listing
	m.mu.Unlock()
	if blocker != nil {
		<-blocker
	}
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []domain.Document
	for _, doc := range m.docs {
		if doc.ModifiedTime.After(modifiedAfter) {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (m *mockFileStore) FetchContent(_ context.Context, doc domain.Document) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	content, ok := m.contents[doc.FileID]
	if !ok {
		return "", domain.ErrNotFound
	}
	return content, nil
}

func (m *mockFileStore) AppendText(_ context.Context, docID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.appended = append(m.appended, struct {
		docID string
		text  string
	}{docID, text})
	return nil
}

func (m *mockFileStore) AppendRow(_ context.Context, sheetID string, values []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.rows = append(m.rows, struct {
		sheetID string
		values  []string
	}{sheetID, values})
	return nil
}

// mockConfig implements driven.ConfigStore over a map.
type mockConfig struct {
	values map[string]any
}

func newMockConfig() *mockConfig {
	return &mockConfig{values: make(map[string]any)}
}

func (m *mockConfig) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mockConfig) GetString(key string) string {
	if v, ok := m.values[key].(string); ok {
		return v
	}
	return ""
}

func (m *mockConfig) GetInt(key string) int {
	if v, ok := m.values[key].(int); ok {
		return v
	}
	return 0
}

func (m *mockConfig) GetBool(key string) bool {
	if v, ok := m.values[key].(bool); ok {
		return v
	}
	return false
}

func (m *mockConfig) Set(key string, value any) error {
	m.values[key] = value
	return nil
}

func (m *mockConfig) Save() error { return nil }

// lineChunker implements driven.TextChunker producing one chunk per
// non-empty line. Small and predictable for ingestion tests.
type lineChunker struct{}

func (lineChunker) Chunk(doc domain.Document, text string) []domain.Chunk {
	var chunks []domain.Chunk
	index := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		chunks = append(chunks, domain.Chunk{
			ID:      domain.ChunkID(doc.FileID, index),
			Content: line,
			Metadata: domain.ChunkMetadata{
				FileID:   doc.FileID,
				FileName: doc.Name,
				MIMEType: doc.MIMEType,
			},
		})
		index++
	}
	return chunks
}

// scored is a helper building a ScoredChunk for query fixtures.
func scored(id, content, fileName string, score float64) domain.ScoredChunk {
	return domain.ScoredChunk{
		Chunk: domain.Chunk{
			ID:      id,
			Content: content,
			Metadata: domain.ChunkMetadata{
				FileID:   strings.SplitN(id, "-", 2)[0],
				FileName: fileName,
			},
		},
		Score: score,
	}
}

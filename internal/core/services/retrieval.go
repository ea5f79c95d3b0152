package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/albertobertheau/lola-agent-app/internal/core/domain"
	"github.com/albertobertheau/lola-agent-app/internal/core/ports/driven"
	"github.com/albertobertheau/lola-agent-app/internal/core/ports/driving"
	"github.com/albertobertheau/lola-agent-app/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.Retriever = (*RetrievalService)(nil)

const (
	// alternativeQueries is how many rephrasings are requested from the
	// model during query expansion.
	alternativeQueries = 3

	// fanOutResults bounds each alternative-query similarity search.
	fanOutResults = 3

	// defaultResults is used when the caller passes a non-positive
	// result count.
	defaultResults = 5
)

// RetrievalService runs the grounded retrieval pipeline: query
// correction, expansion into alternative phrasings, multi-query
// fan-out against the vector store, deduplicated aggregation and
// final synthesis.
type RetrievalService struct {
	vectorStore driven.VectorStore
	completion  driven.CompletionService
	prompts     driven.PromptStore
}

// NewRetrievalService creates a retrieval service. The completion
// service is required for synthesis; correction and expansion degrade
// gracefully when it misbehaves.
func NewRetrievalService(
	vectorStore driven.VectorStore,
	completion driven.CompletionService,
	prompts driven.PromptStore,
) *RetrievalService {
	return &RetrievalService{
		vectorStore: vectorStore,
		completion:  completion,
		prompts:     prompts,
	}
}

// Retrieve runs the full pipeline and synthesizes an answer grounded
// in the retrieved context. A functional store returning no context
// yields the fixed sentinel answer without calling the model; a store
// that cannot be queried at all degrades to an ungrounded synthesis
// with empty context instead.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, n int) (domain.RetrievalResult, error) {
	chunks, err := s.GatherContext(ctx, query, n)
	switch {
	case errors.Is(err, domain.ErrVectorStoreUnavailable):
		logger.Warn("Vector store unavailable, answering without context: %v", err)
		chunks = nil
	case err != nil:
		return domain.RetrievalResult{}, err
	case len(chunks) == 0:
		logger.Info("No context retrieved, returning sentinel answer")
		return domain.RetrievalResult{Answer: domain.SentinelNoInformation}, nil
	}

	// The original query goes into the synthesis prompt, not the
	// corrected one: the model reads the user's own words.
	answer, err := s.synthesize(ctx, query, chunks)
	if err != nil {
		return domain.RetrievalResult{}, fmt.Errorf("synthesize answer: %w", err)
	}

	return domain.RetrievalResult{Chunks: chunks, Answer: answer}, nil
}

// GatherContext runs correction, expansion and deduplicated fan-out
// without synthesis. Tools that build their own prompts use this to
// assemble grounding context at their own breadth. When every fan-out
// query fails the error wraps domain.ErrVectorStoreUnavailable so
// callers can tell a broken store from an empty one.
func (s *RetrievalService) GatherContext(ctx context.Context, query string, n int) ([]domain.RetrievedChunk, error) {
	logger.Section("Retrieval")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if n <= 0 {
		n = defaultResults
	}

	corrected := s.correctQuery(ctx, query)
	alternatives := s.alternativeQueries(ctx, corrected)

	// The corrected query runs at the caller's breadth; alternatives
	// each run at the narrower fan-out bound.
	type fanQuery struct {
		text  string
		limit int
	}
	queries := []fanQuery{{corrected, n}}
	for _, alt := range alternatives {
		queries = append(queries, fanQuery{alt, fanOutResults})
	}

	seen := make(map[string]bool)
	var chunks []domain.RetrievedChunk

	attempted, failed := 0, 0
	for _, fq := range queries {
		if fq.text == "" {
			continue
		}
		attempted++
		scored, err := s.vectorStore.Query(ctx, fq.text, fq.limit)
		if err != nil {
			// A single similarity query failing is isolated: the other
			// fan-out queries still contribute context.
			logger.Warn("Similarity query failed for %q: %v", fq.text, err)
			failed++
			continue
		}
		for _, sc := range scored {
			if seen[sc.ID] {
				continue
			}
			seen[sc.ID] = true
			chunks = append(chunks, domain.RetrievedChunk{
				Content:  sc.Content,
				FileName: sc.Metadata.FileName,
			})
		}
	}

	if attempted > 0 && failed == attempted {
		return nil, fmt.Errorf("all %d similarity queries failed: %w", attempted, domain.ErrVectorStoreUnavailable)
	}

	logger.Debug("Retrieved %d unique chunks from %d queries", len(chunks), len(queries))
	return chunks, nil
}

// correctQuery asks the model to fix spelling and expand terms into
// their underlying concepts. Best-effort: any failure falls back to
// the raw query.
func (s *RetrievalService) correctQuery(ctx context.Context, query string) string {
	tmpl, err := s.prompts.Load(driven.PromptQueryCorrection)
	if err != nil {
		logger.Warn("Query correction prompt unavailable: %v", err)
		return query
	}

	out, err := s.completion.Generate(ctx, fmt.Sprintf(tmpl, query), driven.GenerateOptions{})
	if err != nil {
		logger.Warn("Query correction failed: %v (using original query)", err)
		return query
	}

	corrected := strings.TrimSpace(out)
	if corrected == "" {
		return query
	}
	logger.Debug("Corrected query: %q", corrected)
	return corrected
}

// alternativeQueries asks the model for concise rephrasings of the
// corrected query, one per line. Best-effort: any failure yields an
// empty set.
func (s *RetrievalService) alternativeQueries(ctx context.Context, query string) []string {
	tmpl, err := s.prompts.Load(driven.PromptQueryAlternatives)
	if err != nil {
		logger.Warn("Query expansion prompt unavailable: %v", err)
		return nil
	}

	out, err := s.completion.Generate(ctx, fmt.Sprintf(tmpl, alternativeQueries, query), driven.GenerateOptions{})
	if err != nil {
		logger.Warn("Query expansion failed: %v", err)
		return nil
	}

	var alternatives []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		alternatives = append(alternatives, line)
		if len(alternatives) == alternativeQueries {
			break
		}
	}
	logger.Debug("Alternative queries: %v", alternatives)
	return alternatives
}

// synthesize builds the strict-grounding prompt and returns the
// model's answer verbatim.
func (s *RetrievalService) synthesize(ctx context.Context, query string, chunks []domain.RetrievedChunk) (string, error) {
	tmpl, err := s.prompts.Load(driven.PromptQA)
	if err != nil {
		return "", fmt.Errorf("load synthesis prompt: %w", err)
	}

	prompt := fmt.Sprintf(tmpl, FormatContext(chunks), query)
	answer, err := s.completion.Generate(ctx, prompt, driven.GenerateOptions{})
	if err != nil {
		return "", err
	}
	return answer, nil
}

// FormatContext renders retrieved chunks as a context block with each
// chunk attributed to its source document.
func FormatContext(chunks []domain.RetrievedChunk) string {
	var b strings.Builder
	for i, ch := range chunks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[Fuente: %s]\n%s", ch.FileName, ch.Content)
	}
	return b.String()
}

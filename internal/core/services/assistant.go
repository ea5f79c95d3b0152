package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/albertobertheau/lola-agent-app/internal/core/domain"
	"github.com/albertobertheau/lola-agent-app/internal/core/ports/driven"
	"github.com/albertobertheau/lola-agent-app/internal/core/ports/driving"
	"github.com/albertobertheau/lola-agent-app/internal/logger"
)

// Ensure AssistantService implements the interface.
var _ driving.Assistant = (*AssistantService)(nil)

// AssistantService is the conversation entry point. It answers a few
// housekeeping queries directly (document counts, listings, manual
// sync triggers), routes everything else through the intent router to
// the matching tool, and translates every failure into a fixed
// user-facing message.
type AssistantService struct {
	router      driving.Router
	dispatcher  *ToolDispatcher
	ingestor    driving.Ingestor
	vectorStore driven.VectorStore
}

// NewAssistantService creates the assistant. The ingestor and vector
// store power the housekeeping fast paths; passing nil disables them.
func NewAssistantService(
	router driving.Router,
	dispatcher *ToolDispatcher,
	ingestor driving.Ingestor,
	vectorStore driven.VectorStore,
) *AssistantService {
	return &AssistantService{
		router:      router,
		dispatcher:  dispatcher,
		ingestor:    ingestor,
		vectorStore: vectorStore,
	}
}

// AnswerQuery routes a free-text query and returns the response text.
// Raw errors never escape: rate-limit failures and everything else
// each map to their fixed message.
func (s *AssistantService) AnswerQuery(ctx context.Context, query string) string {
	logger.Section("Query")
	logger.Debug("User: %q", query)

	if answer, handled := s.fastPath(ctx, query); handled {
		return answer
	}

	category, err := s.router.Classify(ctx, query)
	if err != nil {
		// The qa default covers unrecognised classifier output, not a
		// failed classifier call.
		return s.failureMessage(fmt.Errorf("classify query: %w", err))
	}

	answer, err := s.dispatcher.Dispatch(ctx, category, query)
	if err != nil {
		return s.failureMessage(err)
	}
	return answer
}

// ExecuteWriting runs a writing instruction through the writing tool
// directly, bypassing classification.
func (s *AssistantService) ExecuteWriting(ctx context.Context, instruction string) string {
	answer, err := s.dispatcher.Write(ctx, instruction)
	if err != nil {
		return s.failureMessage(err)
	}
	return answer
}

// fastPath answers housekeeping queries without a model call: chunk
// counts, indexed document listings and manual sync triggers.
func (s *AssistantService) fastPath(ctx context.Context, query string) (string, bool) {
	normalized := NormalizeQuery(query)

	if s.vectorStore != nil {
		if (strings.Contains(normalized, "cuantos") && strings.Contains(normalized, "documentos")) ||
			strings.Contains(normalized, "how many documents") {
			count, err := s.vectorStore.Count(ctx)
			if err != nil {
				logger.Warn("Count query failed: %v", err)
				return domain.MsgGenericFailure, true
			}
			return fmt.Sprintf("Actualmente tengo %d fragmentos de texto indexados en mi base de conocimiento.", count), true
		}

		if (strings.Contains(normalized, "lista") && strings.Contains(normalized, "documentos")) ||
			strings.Contains(normalized, "list of documents") {
			names, err := s.vectorStore.FileNames(ctx)
			if err != nil {
				logger.Warn("Listing query failed: %v", err)
				return domain.MsgGenericFailure, true
			}
			if len(names) == 0 {
				return "No encontré ningún documento en mi base de conocimiento en este momento.", true
			}
			var b strings.Builder
			b.WriteString("Claro, aquí tienes la lista de los documentos que tengo en mi base de conocimiento:\n")
			for _, name := range names {
				fmt.Fprintf(&b, "- %s\n", name)
			}
			return strings.TrimRight(b.String(), "\n"), true
		}
	}

	if s.ingestor != nil && containsAny(normalized, "actualiza", "sincroniza", "update", "sync") {
		logger.Info("Manual sync triggered by query")
		if _, err := s.ingestor.Sync(ctx); err != nil {
			logger.Warn("Manual sync failed: %v", err)
			return domain.MsgGenericFailure, true
		}
		return domain.MsgSyncComplete, true
	}

	return "", false
}

// failureMessage maps an error to the fixed message shown to the user.
func (s *AssistantService) failureMessage(err error) string {
	logger.Warn("Query failed: %v", err)
	if domain.IsRateLimited(err) {
		return domain.MsgRateLimited
	}
	return domain.MsgGenericFailure
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

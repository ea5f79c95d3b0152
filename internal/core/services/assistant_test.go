package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albertobertheau/lola-agent-app/internal/core/domain"
)

// recordingRouter implements driving.Router and records every query.
type recordingRouter struct {
	category domain.Category
	err      error
	queries  []string
}

func (r *recordingRouter) Classify(_ context.Context, query string) (domain.Category, error) {
	r.queries = append(r.queries, query)
	if r.err != nil {
		return domain.CategoryQA, r.err
	}
	return r.category, nil
}

type assistantFixture struct {
	assistant  *AssistantService
	router     *recordingRouter
	store      *mockVectorStore
	fileStore  *mockFileStore
	completion *mockCompletion
	ingestor   *IngestService
}

func newAssistantFixture(generate func(prompt string) (string, error)) *assistantFixture {
	store := newMockVectorStore()
	completion := &mockCompletion{generate: generate}
	fileStore := newMockFileStore()
	router := &recordingRouter{category: domain.CategoryQA}

	retriever := NewRetrievalService(store, completion, mockPrompts{})
	dispatcher := NewToolDispatcher(retriever, completion, mockPrompts{}, fileStore, newMockConfig())
	ingestor := NewIngestService(fileStore, store, lineChunker{}, "root")

	return &assistantFixture{
		assistant:  NewAssistantService(router, dispatcher, ingestor, store),
		router:     router,
		store:      store,
		fileStore:  fileStore,
		completion: completion,
		ingestor:   ingestor,
	}
}

func TestAnswerQuery_CountFastPath(t *testing.T) {
	f := newAssistantFixture(func(string) (string, error) {
		return "", errors.New("model must not be called")
	})
	for i := 0; i < 4; i++ {
		chunk := domain.Chunk{ID: domain.ChunkID("f1", i), Content: "x",
			Metadata: domain.ChunkMetadata{FileID: "f1", FileName: "Doc"}}
		require.NoError(t, f.store.Upsert(context.Background(), chunk))
	}

	out := f.assistant.AnswerQuery(context.Background(), "cuantos documentos hay")

	assert.Equal(t, "Actualmente tengo 4 fragmentos de texto indexados en mi base de conocimiento.", out)
	assert.Empty(t, f.router.queries, "fast path must bypass the router")
	assert.Empty(t, f.completion.prompts)
}

func TestAnswerQuery_CountFastPathWithAccents(t *testing.T) {
	f := newAssistantFixture(nil)

	out := f.assistant.AnswerQuery(context.Background(), "¿Cuántos documentos tienes?")

	assert.Contains(t, out, "fragmentos de texto indexados")
}

func TestAnswerQuery_ListFastPath(t *testing.T) {
	f := newAssistantFixture(nil)
	for i, name := range []string{"Pitch Deck", "One-Pager"} {
		chunk := domain.Chunk{ID: domain.ChunkID(fmt.Sprintf("f%d", i), 0), Content: "x",
			Metadata: domain.ChunkMetadata{FileID: fmt.Sprintf("f%d", i), FileName: name}}
		require.NoError(t, f.store.Upsert(context.Background(), chunk))
	}

	out := f.assistant.AnswerQuery(context.Background(), "dame la lista de documentos")

	assert.Contains(t, out, "- Pitch Deck")
	assert.Contains(t, out, "- One-Pager")
	assert.Empty(t, f.router.queries)
}

func TestAnswerQuery_ListFastPathEmptyStore(t *testing.T) {
	f := newAssistantFixture(nil)

	out := f.assistant.AnswerQuery(context.Background(), "lista de documentos")

	assert.Equal(t, "No encontré ningún documento en mi base de conocimiento en este momento.", out)
}

func TestAnswerQuery_ManualSyncTrigger(t *testing.T) {
	f := newAssistantFixture(nil)
	_, err := f.ingestor.Populate(context.Background())
	require.NoError(t, err)

	out := f.assistant.AnswerQuery(context.Background(), "sincroniza con drive por favor")

	assert.Equal(t, domain.MsgSyncComplete, out)
	require.Len(t, f.fileStore.listCalls, 2)
	assert.Empty(t, f.router.queries)
}

func TestAnswerQuery_RoutesThroughDispatcher(t *testing.T) {
	f := newAssistantFixture(func(prompt string) (string, error) {
		switch {
		case strings.HasPrefix(prompt, "CORRECT: "):
			return strings.TrimPrefix(prompt, "CORRECT: "), nil
		case strings.HasPrefix(prompt, "ALTERNATIVES"):
			return "", nil
		default:
			return "el modelo de negocio es suscripción", nil
		}
	})
	f.store.fallback = []domain.ScoredChunk{scored("f1-0", "modelo de suscripción", "One-Pager", 0.9)}

	out := f.assistant.AnswerQuery(context.Background(), "cual es el modelo de negocio")

	assert.Equal(t, "el modelo de negocio es suscripción", out)
	require.Len(t, f.router.queries, 1)
}

func TestAnswerQuery_RateLimitedMapsToFixedMessage(t *testing.T) {
	f := newAssistantFixture(func(prompt string) (string, error) {
		if strings.HasPrefix(prompt, "QA ") {
			return "", fmt.Errorf("generate: %w", domain.ErrRateLimited)
		}
		return "", fmt.Errorf("besteffort: %w", domain.ErrRateLimited)
	})
	f.store.fallback = []domain.ScoredChunk{scored("f1-0", "dato", "Doc", 0.9)}

	out := f.assistant.AnswerQuery(context.Background(), "cual es el plan")

	assert.Equal(t, domain.MsgRateLimited, out)
}

func TestAnswerQuery_GenericFailureMapsToFixedMessage(t *testing.T) {
	f := newAssistantFixture(func(prompt string) (string, error) {
		return "", errors.New("connection reset")
	})
	f.store.fallback = []domain.ScoredChunk{scored("f1-0", "dato", "Doc", 0.9)}

	out := f.assistant.AnswerQuery(context.Background(), "cual es el plan")

	assert.Equal(t, domain.MsgGenericFailure, out)
}

func TestAnswerQuery_RouterFailureMapsToFixedMessage(t *testing.T) {
	f := newAssistantFixture(func(prompt string) (string, error) {
		return "respuesta", nil
	})
	f.router.err = errors.New("classifier offline")
	f.store.fallback = []domain.ScoredChunk{scored("f1-0", "dato", "Doc", 0.9)}

	out := f.assistant.AnswerQuery(context.Background(), "cual es el plan")

	assert.Equal(t, domain.MsgGenericFailure, out)
	assert.Empty(t, f.completion.prompts, "a failed classifier must not reach a tool")
}

func TestAnswerQuery_RateLimitedRouterMapsToRateLimitMessage(t *testing.T) {
	f := newAssistantFixture(nil)
	f.router.err = fmt.Errorf("classify: %w", domain.ErrRateLimited)

	out := f.assistant.AnswerQuery(context.Background(), "cual es el plan")

	assert.Equal(t, domain.MsgRateLimited, out)
}

func TestAnswerQuery_StoreFailureAnswersUngrounded(t *testing.T) {
	f := newAssistantFixture(func(prompt string) (string, error) {
		switch {
		case strings.HasPrefix(prompt, "CORRECT: "):
			return strings.TrimPrefix(prompt, "CORRECT: "), nil
		case strings.HasPrefix(prompt, "ALTERNATIVES"):
			return "", nil
		default:
			return "respuesta sin contexto", nil
		}
	})
	f.store.queryErr = errors.New("index offline")

	out := f.assistant.AnswerQuery(context.Background(), "cual es el plan")

	// A dead index is not an empty one: the model is still asked, with
	// an empty context block.
	assert.Equal(t, "respuesta sin contexto", out)
	synth := f.completion.promptsMatching("QA ")
	require.Len(t, synth, 1)
	assert.Contains(t, synth[0], "CONTEXT[]")
}

func TestExecuteWriting_BypassesRouter(t *testing.T) {
	f := newAssistantFixture(func(string) (string, error) {
		return `{"target_document": "qna_document", "content_to_write": "P: x R: y"}`, nil
	})

	out := f.assistant.ExecuteWriting(context.Background(), "Añade al Q&A: P: x R: y")

	// The fixture config has no document IDs, so the tool reports the
	// write as failed rather than crashing.
	assert.Equal(t, domain.MsgWritingFailed, out)
	assert.Empty(t, f.router.queries)
}

func TestAnswerQuery_SyncTriggerFailure(t *testing.T) {
	f := newAssistantFixture(nil)
	// Not populated: the sync trigger hits the state machine guard.
	out := f.assistant.AnswerQuery(context.Background(), "actualiza la base")

	assert.Equal(t, domain.MsgGenericFailure, out)
}

package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albertobertheau/lola-agent-app/internal/core/domain"
	"github.com/albertobertheau/lola-agent-app/internal/core/ports/driven"
)

// dispatchFixture wires a dispatcher over mocks with writing targets
// configured.
type dispatchFixture struct {
	dispatcher *ToolDispatcher
	store      *mockVectorStore
	completion *mockCompletion
	fileStore  *mockFileStore
}

func newDispatchFixture(generate func(prompt string) (string, error)) *dispatchFixture {
	store := newMockVectorStore()
	completion := &mockCompletion{generate: generate}
	fileStore := newMockFileStore()

	config := newMockConfig()
	config.values[driven.ConfigQnADocumentID] = "qna-doc-id"
	config.values[driven.ConfigItinerarySheetID] = "itinerary-sheet-id"

	retriever := NewRetrievalService(store, completion, mockPrompts{})
	return &dispatchFixture{
		dispatcher: NewToolDispatcher(retriever, completion, mockPrompts{}, fileStore, config),
		store:      store,
		completion: completion,
		fileStore:  fileStore,
	}
}

// echoQueries makes correction echo and expansion yield nothing, so
// only one similarity query runs per tool call.
func echoQueries(then func(prompt string) (string, error)) func(string) (string, error) {
	return func(prompt string) (string, error) {
		switch {
		case strings.HasPrefix(prompt, "CORRECT: "):
			return strings.TrimPrefix(prompt, "CORRECT: "), nil
		case strings.HasPrefix(prompt, "ALTERNATIVES"):
			return "", nil
		default:
			return then(prompt)
		}
	}
}

func TestDispatch_BreadthPerCategory(t *testing.T) {
	tests := []struct {
		category domain.Category
		breadth  int
	}{
		{domain.CategoryQA, qaResults},
		{domain.CategoryGeneration, generationResults},
		{domain.CategoryAnalysis, analysisResults},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			f := newDispatchFixture(echoQueries(func(string) (string, error) {
				return "salida", nil
			}))
			f.store.fallback = []domain.ScoredChunk{scored("f1-0", "dato", "Doc", 0.9)}

			_, err := f.dispatcher.Dispatch(context.Background(), tt.category, "consulta")

			require.NoError(t, err)
			require.NotEmpty(t, f.store.queries)
			assert.Equal(t, tt.breadth, f.store.queries[0].limit)
		})
	}
}

func TestDispatch_GenerationUsesItsPersona(t *testing.T) {
	f := newDispatchFixture(echoQueries(func(prompt string) (string, error) {
		if strings.HasPrefix(prompt, "GENERATION ") {
			return "contenido generado", nil
		}
		return "", errors.New("wrong persona: " + prompt)
	}))
	f.store.fallback = []domain.ScoredChunk{scored("f1-0", "hechos", "One-Pager", 0.9)}

	out, err := f.dispatcher.Dispatch(context.Background(), domain.CategoryGeneration, "redacta un email")

	require.NoError(t, err)
	assert.Equal(t, "contenido generado", out)

	prompts := f.completion.promptsMatching("GENERATION ")
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "hechos")
	assert.Contains(t, prompts[0], "redacta un email")
}

func TestDispatch_GenerationRunsUngroundedWhenStoreIsDown(t *testing.T) {
	f := newDispatchFixture(echoQueries(func(prompt string) (string, error) {
		if strings.HasPrefix(prompt, "GENERATION ") {
			return "contenido sin contexto", nil
		}
		return "", errors.New("wrong persona: " + prompt)
	}))
	f.store.queryErr = errors.New("index offline")

	out, err := f.dispatcher.Dispatch(context.Background(), domain.CategoryGeneration, "redacta un email")

	require.NoError(t, err)
	assert.Equal(t, "contenido sin contexto", out)

	prompts := f.completion.promptsMatching("GENERATION ")
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "CONTEXT[]")
}

func TestDispatch_UnknownCategoryFallsBackToQA(t *testing.T) {
	f := newDispatchFixture(echoQueries(func(string) (string, error) {
		return "respuesta", nil
	}))
	f.store.fallback = []domain.ScoredChunk{scored("f1-0", "dato", "Doc", 0.9)}

	out, err := f.dispatcher.Dispatch(context.Background(), domain.Category("nonsense"), "consulta")

	require.NoError(t, err)
	assert.Equal(t, "respuesta", out)
	assert.NotEmpty(t, f.completion.promptsMatching("QA "))
}

func TestWrite_QnAScenario(t *testing.T) {
	action := `{"target_document": "qna_document", "content_to_write": "P: Cuál es el objetivo? R: Ser líderes."}`
	f := newDispatchFixture(func(prompt string) (string, error) {
		require.True(t, strings.HasPrefix(prompt, "WRITING: "), "unexpected prompt %q", prompt)
		return action, nil
	})

	out, err := f.dispatcher.Write(context.Background(), "Añade al Q&A: P: Cuál es el objetivo? R: Ser líderes.")

	require.NoError(t, err)
	assert.Equal(t, domain.MsgWritingSuccessQnA, out)

	require.Len(t, f.fileStore.appended, 1)
	assert.Equal(t, "qna-doc-id", f.fileStore.appended[0].docID)
	assert.Contains(t, f.fileStore.appended[0].text, "P:")
	assert.Contains(t, f.fileStore.appended[0].text, "R:")
}

func TestWrite_StripsCodeFences(t *testing.T) {
	f := newDispatchFixture(func(string) (string, error) {
		return "```json\n{\"target_document\": \"qna_document\", \"content_to_write\": \"texto\"}\n```", nil
	})

	out, err := f.dispatcher.Write(context.Background(), "añade texto al q&a")

	require.NoError(t, err)
	assert.Equal(t, domain.MsgWritingSuccessQnA, out)
	require.Len(t, f.fileStore.appended, 1)
	assert.Equal(t, "texto", f.fileStore.appended[0].text)
}

func TestWrite_ItineraryRow(t *testing.T) {
	f := newDispatchFixture(func(string) (string, error) {
		return `{"target_document": "itinerary_sheet", "content_to_write": ["2025-12-05", "11 AM", "Demo con Inversores"]}`, nil
	})

	out, err := f.dispatcher.Write(context.Background(), "Registra en el itinerario: 2025-12-05, 11 AM, Demo con Inversores")

	require.NoError(t, err)
	assert.Equal(t, domain.MsgWritingSuccessItinerary, out)

	require.Len(t, f.fileStore.rows, 1)
	assert.Equal(t, "itinerary-sheet-id", f.fileStore.rows[0].sheetID)
	assert.Equal(t, []string{"2025-12-05", "11 AM", "Demo con Inversores"}, f.fileStore.rows[0].values)
}

func TestWrite_ItineraryTextSplitsIntoRow(t *testing.T) {
	f := newDispatchFixture(func(string) (string, error) {
		return `{"target_document": "itinerary_sheet", "content_to_write": "2025-12-05, 11 AM, Demo"}`, nil
	})

	_, err := f.dispatcher.Write(context.Background(), "registra en el itinerario")

	require.NoError(t, err)
	require.Len(t, f.fileStore.rows, 1)
	assert.Equal(t, []string{"2025-12-05", "11 AM", "Demo"}, f.fileStore.rows[0].values)
}

func TestWrite_ParseFailureReturnsClarification(t *testing.T) {
	f := newDispatchFixture(func(string) (string, error) {
		return "Claro, con gusto añado eso al documento.", nil
	})

	out, err := f.dispatcher.Write(context.Background(), "añade algo")

	require.NoError(t, err)
	assert.Equal(t, domain.MsgWritingClarification, out)
	assert.Empty(t, f.fileStore.appended, "no document may be mutated on parse failure")
	assert.Empty(t, f.fileStore.rows)
}

func TestWrite_UnknownTargetReturnsClarification(t *testing.T) {
	f := newDispatchFixture(func(string) (string, error) {
		return `{"target_document": "budget_sheet", "content_to_write": "x"}`, nil
	})

	out, err := f.dispatcher.Write(context.Background(), "añade al presupuesto")

	require.NoError(t, err)
	assert.Equal(t, domain.MsgWritingClarification, out)
	assert.Empty(t, f.fileStore.appended)
}

func TestWrite_AppendFailureReturnsFixedMessage(t *testing.T) {
	f := newDispatchFixture(func(string) (string, error) {
		return `{"target_document": "qna_document", "content_to_write": "texto"}`, nil
	})
	f.fileStore.appendErr = errors.New("api unavailable")

	out, err := f.dispatcher.Write(context.Background(), "añade texto")

	require.NoError(t, err)
	assert.Equal(t, domain.MsgWritingFailed, out)
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fences", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"bare fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"single line fence", "```json{\"a\": 1}```", `{"a": 1}`},
		{"surrounding whitespace", "  ```json\n{\"a\": 1}\n```  ", `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFences(tt.in))
		})
	}
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/albertobertheau/lola-agent-app/internal/core/domain"
	"github.com/albertobertheau/lola-agent-app/internal/core/ports/driven"
	"github.com/albertobertheau/lola-agent-app/internal/core/ports/driving"
	"github.com/albertobertheau/lola-agent-app/internal/logger"
)

// Context-gathering breadths per category. Tasks needing more
// synthesis get wider context.
const (
	qaResults         = 5
	generationResults = 7
	analysisResults   = 10
)

// ToolDispatcher maps a routed category to its tool: a persona prompt,
// a context-gathering breadth and a completion call. The writing tool
// additionally parses a structured action and applies it to an
// external document.
type ToolDispatcher struct {
	retriever  driving.Retriever
	completion driven.CompletionService
	prompts    driven.PromptStore
	fileStore  driven.FileStore
	config     driven.ConfigStore
}

// NewToolDispatcher creates a dispatcher. The file store and config
// store are only needed by the writing tool; passing nil disables it.
func NewToolDispatcher(
	retriever driving.Retriever,
	completion driven.CompletionService,
	prompts driven.PromptStore,
	fileStore driven.FileStore,
	config driven.ConfigStore,
) *ToolDispatcher {
	return &ToolDispatcher{
		retriever:  retriever,
		completion: completion,
		prompts:    prompts,
		fileStore:  fileStore,
		config:     config,
	}
}

// Dispatch runs the tool for the given category and returns its
// response text.
func (d *ToolDispatcher) Dispatch(ctx context.Context, category domain.Category, query string) (string, error) {
	logger.Section("Tool Dispatch")
	logger.Info("Category: %s", category)

	switch category {
	case domain.CategoryQA:
		return d.answerQuestion(ctx, query)
	case domain.CategoryGeneration:
		return d.generateContent(ctx, query)
	case domain.CategoryAnalysis:
		return d.analyze(ctx, query)
	case domain.CategoryWriting:
		return d.Write(ctx, query)
	default:
		return d.answerQuestion(ctx, query)
	}
}

// answerQuestion runs the strict question-answering tool. The full
// retrieval pipeline already enforces grounding and the sentinel.
func (d *ToolDispatcher) answerQuestion(ctx context.Context, query string) (string, error) {
	result, err := d.retriever.Retrieve(ctx, query, qaResults)
	if err != nil {
		return "", fmt.Errorf("qa tool: %w", err)
	}
	return result.Answer, nil
}

// generateContent runs the content-generation tool at a wider
// retrieval breadth than plain question answering.
func (d *ToolDispatcher) generateContent(ctx context.Context, query string) (string, error) {
	return d.groundedCompletion(ctx, driven.PromptGeneration, query, generationResults)
}

// analyze runs the strategic-analysis tool at the widest retrieval
// breadth.
func (d *ToolDispatcher) analyze(ctx context.Context, query string) (string, error) {
	return d.groundedCompletion(ctx, driven.PromptAnalysis, query, analysisResults)
}

// groundedCompletion gathers context at the given breadth, fills the
// named persona template and returns the model output verbatim. An
// unavailable vector store degrades to an empty context block rather
// than refusing the request.
func (d *ToolDispatcher) groundedCompletion(ctx context.Context, promptName, query string, n int) (string, error) {
	chunks, err := d.retriever.GatherContext(ctx, query, n)
	if err != nil {
		if !errors.Is(err, domain.ErrVectorStoreUnavailable) {
			return "", fmt.Errorf("gather context: %w", err)
		}
		logger.Warn("Context gathering failed, running ungrounded: %v", err)
		chunks = nil
	}

	tmpl, err := d.prompts.Load(promptName)
	if err != nil {
		return "", fmt.Errorf("load prompt %s: %w", promptName, err)
	}

	out, err := d.completion.Generate(ctx, fmt.Sprintf(tmpl, FormatContext(chunks), query), driven.GenerateOptions{})
	if err != nil {
		return "", fmt.Errorf("tool %s: %w", promptName, err)
	}
	return out, nil
}

// Write runs the writing tool: the model converts the free-text
// instruction into a structured action, which is then applied to the
// named external document. A parse failure or an unknown target
// returns a fixed clarification without mutating anything.
func (d *ToolDispatcher) Write(ctx context.Context, instruction string) (string, error) {
	if d.fileStore == nil || d.config == nil {
		return domain.MsgWritingClarification, nil
	}

	tmpl, err := d.prompts.Load(driven.PromptWriting)
	if err != nil {
		return "", fmt.Errorf("load writing prompt: %w", err)
	}

	out, err := d.completion.Generate(ctx, fmt.Sprintf(tmpl, instruction), driven.GenerateOptions{})
	if err != nil {
		return "", fmt.Errorf("interpret writing instruction: %w", err)
	}

	action, err := parseWritingAction(out)
	if err != nil {
		logger.Warn("Writing action parse failed: %v (raw %q)", err, out)
		return domain.MsgWritingClarification, nil
	}

	switch action.TargetDocument {
	case domain.WritingTargetQnA:
		docID := d.config.GetString(driven.ConfigQnADocumentID)
		if docID == "" {
			logger.Warn("Q&A document ID not configured")
			return domain.MsgWritingFailed, nil
		}
		if err := d.fileStore.AppendText(ctx, docID, action.ContentToWrite.Text); err != nil {
			logger.Warn("Append to Q&A document failed: %v", err)
			return domain.MsgWritingFailed, nil
		}
		return domain.MsgWritingSuccessQnA, nil

	case domain.WritingTargetItinerary:
		sheetID := d.config.GetString(driven.ConfigItinerarySheetID)
		if sheetID == "" {
			logger.Warn("Itinerary sheet ID not configured")
			return domain.MsgWritingFailed, nil
		}
		row := action.ContentToWrite.Row
		if !action.ContentToWrite.IsRow() {
			// The model sometimes returns the row as comma-joined text.
			row = splitRow(action.ContentToWrite.Text)
		}
		if err := d.fileStore.AppendRow(ctx, sheetID, row); err != nil {
			logger.Warn("Append to itinerary sheet failed: %v", err)
			return domain.MsgWritingFailed, nil
		}
		return domain.MsgWritingSuccessItinerary, nil

	default:
		return domain.MsgWritingClarification, nil
	}
}

// parseWritingAction strips code-fence decoration, parses the JSON
// action and validates the target vocabulary.
func parseWritingAction(raw string) (domain.WritingAction, error) {
	cleaned := StripCodeFences(raw)

	var action domain.WritingAction
	if err := json.Unmarshal([]byte(cleaned), &action); err != nil {
		return domain.WritingAction{}, fmt.Errorf("parse writing action: %w", err)
	}
	if !action.ValidTarget() {
		return domain.WritingAction{}, fmt.Errorf("%w: %q", domain.ErrUnknownWritingTarget, action.TargetDocument)
	}
	return action, nil
}

// StripCodeFences removes markdown code-fence decoration (``` or
// ```json) wrapping a model response.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// Drop the language tag on the opening fence line.
		s = s[idx+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// splitRow converts comma-separated text into trimmed field values.
func splitRow(text string) []string {
	parts := strings.Split(text, ",")
	row := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			row = append(row, p)
		}
	}
	return row
}

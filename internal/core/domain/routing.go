package domain

import (
	"encoding/json"
	"strings"
)

// Category is the task class a user query is routed to.
// The vocabulary is stable and must not change silently: external
// surfaces (prompt templates, configuration) depend on it.
type Category string

const (
	// CategoryQA answers direct questions strictly from retrieved context.
	CategoryQA Category = "qa"
	// CategoryGeneration produces new content (emails, posts, summaries)
	// grounded on retrieved context.
	CategoryGeneration Category = "generation"
	// CategoryAnalysis produces structured strategic analysis with
	// citations to the retrieved context.
	CategoryAnalysis Category = "analysis"
	// CategoryWriting converts an instruction into a structured write
	// against an external document.
	CategoryWriting Category = "writing"
)

// Categories lists every valid routing category.
var Categories = []Category{CategoryQA, CategoryGeneration, CategoryAnalysis, CategoryWriting}

// ParseCategory maps free-form classifier output to a Category.
// Output is lower-cased and trimmed before membership validation; any
// string outside the closed set resolves to CategoryQA.
func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range Categories {
		if c == valid {
			return c
		}
	}
	return CategoryQA
}

// Writing targets form a second stable vocabulary: the named external
// destinations the writing tool can mutate.
const (
	// WritingTargetQnA appends free text to the Q&A document.
	WritingTargetQnA = "qna_document"
	// WritingTargetItinerary appends an ordered row to the itinerary sheet.
	WritingTargetItinerary = "itinerary_sheet"
)

// WritingAction is the structured directive parsed from the model's
// interpretation of a writing instruction. It exists only within a
// single writing-tool invocation.
type WritingAction struct {
	TargetDocument string         `json:"target_document"`
	ContentToWrite WritingContent `json:"content_to_write"`
}

// WritingContent holds either free text (for document targets) or an
// ordered list of field values (for tabular targets), depending on
// which the model produced.
type WritingContent struct {
	Text string
	Row  []string
}

// UnmarshalJSON accepts either a JSON string or a JSON array of strings.
func (c *WritingContent) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		c.Text = text
		return nil
	}

	var row []string
	if err := json.Unmarshal(data, &row); err != nil {
		return err
	}
	c.Row = row
	return nil
}

// IsRow reports whether the content is an ordered list of field values.
func (c WritingContent) IsRow() bool {
	return c.Row != nil
}

// ValidTarget reports whether the action names a known writing target.
func (a WritingAction) ValidTarget() bool {
	return a.TargetDocument == WritingTargetQnA || a.TargetDocument == WritingTargetItinerary
}

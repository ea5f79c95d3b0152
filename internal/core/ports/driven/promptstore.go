package driven

// PromptStore provides LLM prompt templates, loadable from
// user-editable files with embedded defaults as fallback.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)
}

// Prompt template names.
const (
	// PromptQueryCorrection fixes spelling and expands query terms into
	// their underlying concepts before retrieval.
	PromptQueryCorrection = "query_correction"

	// PromptQueryAlternatives asks for concise alternative phrasings of
	// a corrected query, one per line.
	PromptQueryAlternatives = "query_alternatives"

	// PromptClassify routes a query to one of the task categories.
	PromptClassify = "classify"

	// PromptQA is the strict grounded question-answering persona.
	PromptQA = "tool_qa"

	// PromptGeneration is the content-generation persona.
	PromptGeneration = "tool_generation"

	// PromptAnalysis is the strategic-analysis persona.
	PromptAnalysis = "tool_analysis"

	// PromptWriting converts a writing instruction into a structured
	// JSON action.
	PromptWriting = "tool_writing"
)

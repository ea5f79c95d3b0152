package driving

import "context"

// Assistant is the top-level query-answering entry point.
// It never surfaces raw errors: any failure is translated into one of
// the fixed user-facing messages.
type Assistant interface {
	// AnswerQuery routes a free-text query to the appropriate tool and
	// returns the response text.
	AnswerQuery(ctx context.Context, query string) string

	// ExecuteWriting runs a writing instruction through the writing
	// tool directly, bypassing classification.
	ExecuteWriting(ctx context.Context, instruction string) string
}

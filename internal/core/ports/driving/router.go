package driving

import (
	"context"

	"github.com/albertobertheau/lola-agent-app/internal/core/domain"
)

// Router classifies a free-text request into a task category.
//
// Implementations include a keyword-rule strategy, a model-based
// strategy, and a chain composing the two. Malformed classifier
// output always resolves to domain.CategoryQA; only an outright
// capability failure is returned as an error.
type Router interface {
	Classify(ctx context.Context, query string) (domain.Category, error)
}

package services

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/albertobertheau/lola-agent-app/internal/core/domain"
	"github.com/albertobertheau/lola-agent-app/internal/core/ports/driven"
	"github.com/albertobertheau/lola-agent-app/internal/core/ports/driving"
	"github.com/albertobertheau/lola-agent-app/internal/logger"
)

// Ensure routers implement the interface.
var (
	_ driving.Router = (*KeywordRouter)(nil)
	_ driving.Router = (*LLMRouter)(nil)
	_ driving.Router = (*ChainRouter)(nil)
)

// NormalizeQuery lowercases text and strips diacritics so keyword
// rules match "análisis" and "analisis" alike.
func NormalizeQuery(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, text)
	if err != nil {
		stripped = text
	}
	return strings.ToLower(stripped)
}

// categoryRule maps normalized keywords to a category. Rules are
// checked in order; the first hit wins.
type categoryRule struct {
	category domain.Category
	keywords []string
}

// defaultRules route the unambiguous phrasings without a model call.
// Keywords are stored pre-normalized (lowercase, no accents).
var defaultRules = []categoryRule{
	{domain.CategoryWriting, []string{
		"anade al", "anade a", "agrega al", "agrega a",
		"registra en", "apunta en", "escribe en",
	}},
	{domain.CategoryAnalysis, []string{
		"analiza", "analisis", "compara", "evalua",
		"riesgos", "oportunidades", "recomiendas", "estrategia",
	}},
	{domain.CategoryGeneration, []string{
		"redacta", "genera", "escribe un", "escribe una",
		"crea un", "crea una", "borrador", "tweet",
	}},
}

// KeywordRouter classifies queries by keyword rules over normalized
// text. Queries matching no rule resolve to the question-answering
// category.
type KeywordRouter struct {
	rules []categoryRule
}

// NewKeywordRouter creates a keyword router with the default rules.
func NewKeywordRouter() *KeywordRouter {
	return &KeywordRouter{rules: defaultRules}
}

// Match reports the first rule hit for the query. The boolean is
// false when no keyword matched.
func (r *KeywordRouter) Match(query string) (domain.Category, bool) {
	normalized := NormalizeQuery(query)
	for _, rule := range r.rules {
		for _, kw := range rule.keywords {
			if strings.Contains(normalized, kw) {
				return rule.category, true
			}
		}
	}
	return domain.CategoryQA, false
}

// Classify implements driving.Router.
func (r *KeywordRouter) Classify(_ context.Context, query string) (domain.Category, error) {
	category, matched := r.Match(query)
	if matched {
		logger.Debug("Keyword router: %q -> %s", query, category)
	}
	return category, nil
}

// LLMRouter classifies queries by asking the completion model to name
// a category. Any unrecognized or malformed model output resolves to
// the question-answering category.
type LLMRouter struct {
	completion driven.CompletionService
	prompts    driven.PromptStore
}

// NewLLMRouter creates a model-backed router.
func NewLLMRouter(completion driven.CompletionService, prompts driven.PromptStore) *LLMRouter {
	return &LLMRouter{completion: completion, prompts: prompts}
}

// Classify implements driving.Router.
func (r *LLMRouter) Classify(ctx context.Context, query string) (domain.Category, error) {
	tmpl, err := r.prompts.Load(driven.PromptClassify)
	if err != nil {
		return domain.CategoryQA, fmt.Errorf("load classify prompt: %w", err)
	}

	out, err := r.completion.Generate(ctx, fmt.Sprintf(tmpl, query), driven.GenerateOptions{})
	if err != nil {
		return domain.CategoryQA, fmt.Errorf("classify query: %w", err)
	}

	category := domain.ParseCategory(out)
	logger.Debug("LLM router: %q -> %s (raw %q)", query, category, strings.TrimSpace(out))
	return category, nil
}

// ChainRouter tries the keyword rules first and falls back to a
// second router only when no keyword matched. This keeps the common
// phrasings off the model entirely.
type ChainRouter struct {
	keywords *KeywordRouter
	fallback driving.Router
}

// NewChainRouter composes the keyword router with a fallback.
func NewChainRouter(keywords *KeywordRouter, fallback driving.Router) *ChainRouter {
	return &ChainRouter{keywords: keywords, fallback: fallback}
}

// Classify implements driving.Router.
func (r *ChainRouter) Classify(ctx context.Context, query string) (domain.Category, error) {
	if category, matched := r.keywords.Match(query); matched {
		return category, nil
	}
	if r.fallback == nil {
		return domain.CategoryQA, nil
	}
	return r.fallback.Classify(ctx, query)
}

// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"fmt"
	"os"

	localembed "github.com/albertobertheau/lola-agent-app/internal/adapters/driven/embedding/local"
	openaiembed "github.com/albertobertheau/lola-agent-app/internal/adapters/driven/embedding/openai"
	geminillm "github.com/albertobertheau/lola-agent-app/internal/adapters/driven/llm/gemini"
	openaillm "github.com/albertobertheau/lola-agent-app/internal/adapters/driven/llm/openai"
	"github.com/albertobertheau/lola-agent-app/internal/core/ports/driven"
)

// Provider names accepted in configuration.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderLocal  = "local"
)

// Environment variables holding API keys. Keys live in the
// environment, not in the config file, so the config file stays safe
// to share.
const (
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
)

// CreateCompletionService creates the completion service selected by
// configuration. An empty provider defaults to Gemini.
func CreateCompletionService(cfg driven.ConfigStore) (driven.CompletionService, error) {
	provider := cfg.GetString(driven.ConfigAIProvider)
	if provider == "" {
		provider = ProviderGemini
	}
	model := cfg.GetString(driven.ConfigAIModel)

	switch provider {
	case ProviderGemini:
		return geminillm.NewCompletionService(geminillm.Config{
			APIKey: os.Getenv(EnvGeminiAPIKey),
			Model:  model,
		})

	case ProviderOpenAI:
		return openaillm.NewCompletionService(openaillm.Config{
			APIKey: os.Getenv(EnvOpenAIAPIKey),
			Model:  model,
		})

	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", provider)
	}
}

// CreateEmbeddingService creates the embedding service selected by
// configuration. An empty provider picks OpenAI when an API key is
// available and falls back to the offline local embedder otherwise.
func CreateEmbeddingService(cfg driven.ConfigStore) (driven.EmbeddingService, error) {
	provider := cfg.GetString(driven.ConfigEmbeddingProvider)
	if provider == "" {
		if os.Getenv(EnvOpenAIAPIKey) != "" {
			provider = ProviderOpenAI
		} else {
			provider = ProviderLocal
		}
	}

	switch provider {
	case ProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey: os.Getenv(EnvOpenAIAPIKey),
		})

	case ProviderLocal:
		return localembed.NewEmbeddingService(0), nil

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", provider)
	}
}

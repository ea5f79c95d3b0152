package driven

import "context"

// CompletionService is the opaque text-completion capability.
// Everything the agent knows about the language model is behind this
// interface; the model, credentials and transport are adapter concerns.
//
// Implementations may include:
//   - Gemini (generativelanguage API)
//   - OpenAI-compatible APIs (OpenAI, Azure, local inference servers)
//
// Implementations must wrap quota/429 failures with
// domain.ErrRateLimited so callers can distinguish transient quota
// exhaustion from other failures.
type CompletionService interface {
	// Generate produces text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request. Used at startup before committing to LLM routing.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}

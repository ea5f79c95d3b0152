// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - CompletionService: Opaque "generate text from prompt" capability
//   - FileStore: Remote file listing, content fetching and appends
//   - TextChunker: Splits extracted text into indexable chunks
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - VectorStore: Chunk persistence and similarity query. Without it,
//     answering proceeds ungrounded (empty-context mode).
//   - PromptStore: User-customisable prompt templates. Without it,
//     embedded defaults are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven

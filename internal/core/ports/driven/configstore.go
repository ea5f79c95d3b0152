package driven

// ConfigStore provides persistent application configuration.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	GetInt(key string) int

	// GetBool retrieves a boolean configuration value.
	GetBool(key string) bool

	// Set stores a configuration value and persists it.
	Set(key string, value any) error

	// Save persists the current configuration.
	Save() error
}

// Configuration keys used by the application.
const (
	// ConfigRootFolderID is the file-store folder the corpus lives under.
	ConfigRootFolderID = "drive.root_folder_id"

	// ConfigQnADocumentID is the writing target for free-text appends.
	ConfigQnADocumentID = "drive.qna_document_id"

	// ConfigItinerarySheetID is the writing target for row appends.
	ConfigItinerarySheetID = "drive.itinerary_sheet_id"

	// ConfigAIProvider selects the completion adapter (gemini, openai).
	ConfigAIProvider = "ai.provider"

	// ConfigAIModel overrides the adapter's default model.
	ConfigAIModel = "ai.model"

	// ConfigEmbeddingProvider selects the embedding adapter (openai, local).
	ConfigEmbeddingProvider = "ai.embedding_provider"

	// ConfigFreshIndex selects fresh-index mode: discard the persisted
	// store and rebuild from scratch at startup instead of resuming.
	ConfigFreshIndex = "index.fresh"

	// ConfigSyncIntervalMinutes is the background sync period.
	ConfigSyncIntervalMinutes = "sync.interval_minutes"

	// ConfigRouterStrategy selects the routing strategy
	// (keyword-first, llm, keyword).
	ConfigRouterStrategy = "router.strategy"
)

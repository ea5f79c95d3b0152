// Command lola is a document-grounded assistant. It indexes a Google
// Drive folder into a local vector store and answers natural-language
// questions about it.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/albertobertheau/lola-agent-app/internal/adapters/driven/ai"
	configfile "github.com/albertobertheau/lola-agent-app/internal/adapters/driven/config/file"
	vectorsqlite "github.com/albertobertheau/lola-agent-app/internal/adapters/driven/vectorstore/sqlite"
	"github.com/albertobertheau/lola-agent-app/internal/adapters/driving/cli"
	"github.com/albertobertheau/lola-agent-app/internal/chunker"
	"github.com/albertobertheau/lola-agent-app/internal/connectors/google"
	googledrive "github.com/albertobertheau/lola-agent-app/internal/connectors/google/drive"
	"github.com/albertobertheau/lola-agent-app/internal/core/ports/driven"
	"github.com/albertobertheau/lola-agent-app/internal/core/ports/driving"
	"github.com/albertobertheau/lola-agent-app/internal/core/services"
	"github.com/albertobertheau/lola-agent-app/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	config, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	prompts, err := configfile.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("loading prompts: %w", err)
	}

	completion, err := ai.CreateCompletionService(config)
	if err != nil {
		return fmt.Errorf("creating completion service: %w", err)
	}
	defer completion.Close()

	embedder, err := ai.CreateEmbeddingService(config)
	if err != nil {
		return fmt.Errorf("creating embedding service: %w", err)
	}
	defer embedder.Close()

	vectorStore, err := vectorsqlite.NewStore(vectorsqlite.Config{
		Embedder: embedder,
		Fresh:    config.GetBool(driven.ConfigFreshIndex),
	})
	if err != nil {
		return fmt.Errorf("opening vector store: %w", err)
	}
	defer vectorStore.Close()

	ctx := context.Background()
	fileStore := buildFileStore(ctx)

	retriever := services.NewRetrievalService(vectorStore, completion, prompts)
	dispatcher := services.NewToolDispatcher(retriever, completion, prompts, fileStore, config)
	router := buildRouter(config, completion, prompts)

	svcs := cli.Services{
		Retriever: retriever,
		Index:     vectorStore,
	}

	var ingestor driving.Ingestor
	if fileStore != nil {
		ingest := services.NewIngestService(
			fileStore,
			vectorStore,
			chunker.NewWordWindow(0, 0),
			config.GetString(driven.ConfigRootFolderID),
		)
		interval := time.Duration(config.GetInt(driven.ConfigSyncIntervalMinutes)) * time.Minute
		ingestor = ingest
		svcs.Ingestor = ingest
		svcs.Scheduler = services.NewScheduler(ingest, interval)
	}
	svcs.Assistant = services.NewAssistantService(router, dispatcher, ingestor, vectorStore)

	cli.SetServices(svcs)
	return cli.Execute()
}

// buildFileStore wires the Google Drive file store. Without a stored
// OAuth token the assistant still runs: querying works against the
// existing index, only ingestion and writing are unavailable.
func buildFileStore(ctx context.Context) driven.FileStore {
	home, err := os.UserHomeDir()
	if err != nil {
		logger.Warn("Cannot determine home directory: %v", err)
		return nil
	}
	tokenPath := filepath.Join(home, ".lola", "token.json")

	ts, err := google.LoadTokenSource(tokenPath)
	if err != nil {
		logger.Warn("Drive unavailable (no token at %s): %v", tokenPath, err)
		return nil
	}

	driveSvc, err := google.NewDriveService(ctx, ts)
	if err != nil {
		logger.Warn("Drive unavailable: %v", err)
		return nil
	}
	docsSvc, err := google.NewDocsService(ctx, ts)
	if err != nil {
		logger.Warn("Docs unavailable: %v", err)
		return nil
	}
	sheetsSvc, err := google.NewSheetsService(ctx, ts)
	if err != nil {
		logger.Warn("Sheets unavailable: %v", err)
		return nil
	}

	return googledrive.NewFileStore(driveSvc, docsSvc, sheetsSvc)
}

// buildRouter selects the routing strategy from configuration.
func buildRouter(config driven.ConfigStore, completion driven.CompletionService, prompts driven.PromptStore) driving.Router {
	keywords := services.NewKeywordRouter()
	llm := services.NewLLMRouter(completion, prompts)

	switch config.GetString(driven.ConfigRouterStrategy) {
	case "keyword":
		return services.NewChainRouter(keywords, nil)
	case "llm":
		return llm
	default:
		return services.NewChainRouter(keywords, llm)
	}
}

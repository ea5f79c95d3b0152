// Package cli provides the command-line interface for Lola.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/albertobertheau/lola-agent-app/internal/core/ports/driven"
	"github.com/albertobertheau/lola-agent-app/internal/core/ports/driving"
	"github.com/albertobertheau/lola-agent-app/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// SyncScheduler runs background synchronisation. Start blocks until
// the context is cancelled or Stop is called.
type SyncScheduler interface {
	Start(ctx context.Context) error
	Stop() error
}

// Services aggregates everything the commands need. Wired once by main
// before Execute.
type Services struct {
	Assistant driving.Assistant
	Retriever driving.Retriever
	Ingestor  driving.Ingestor
	Index     driven.VectorStore
	Scheduler SyncScheduler
}

var (
	assistantService driving.Assistant
	retrieverService driving.Retriever
	ingestorService  driving.Ingestor
	vectorIndex      driven.VectorStore
	syncScheduler    SyncScheduler
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "lola",
	Short: "Lola, a document-grounded assistant",
	Long: `Lola answers questions about an organisation's Google Drive documents.
It indexes the corpus into a local vector store, keeps it synchronised in
the background, and routes each request to the right tool: grounded Q&A,
content generation, strategic analysis or document writing.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// SetServices injects the wired services into the command tree.
func SetServices(s Services) {
	assistantService = s.Assistant
	retrieverService = s.Retriever
	ingestorService = s.Ingestor
	vectorIndex = s.Index
	syncScheduler = s.Scheduler
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/albertobertheau/lola-agent-app/internal/core/domain"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronise the knowledge base with Google Drive",
	Long: `Runs an indexing pass against the configured Drive folder.
The first run populates the whole corpus; later runs only re-index
files modified since the last pass.`,
	RunE: runSyncCmd,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSyncCmd(cmd *cobra.Command, _ []string) error {
	if ingestorService == nil {
		return errors.New("ingestor service not configured")
	}

	ctx := cmd.Context()

	var (
		run *domain.SyncRun
		err error
	)
	if ingestorService.State() == domain.IngestStateEmpty {
		cmd.Println("Populating knowledge base...")
		run, err = ingestorService.Populate(ctx)
	} else {
		cmd.Println("Synchronising knowledge base...")
		run, err = ingestorService.Sync(ctx)
	}
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	cmd.Printf("Done in %s: %d files processed, %d skipped, %d chunks indexed",
		run.EndedAt.Sub(run.StartedAt).Round(time.Millisecond), run.FilesProcessed, run.FilesSkipped, run.ChunksIndexed)
	if run.Errors > 0 {
		cmd.Printf(" (%d errors)", run.Errors)
	}
	cmd.Println()

	return nil
}

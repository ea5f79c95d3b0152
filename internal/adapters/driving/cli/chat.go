package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/albertobertheau/lola-agent-app/internal/core/domain"
	"github.com/albertobertheau/lola-agent-app/internal/logger"
)

// exitWord ends the chat loop.
const exitWord = "salir"

var (
	promptStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	answerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	answerPrefix = "Lola: "
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation with Lola",
	Long: `Starts the interactive chat loop. On first run the knowledge base is
populated from the configured Drive folder; afterwards a background
scheduler keeps it synchronised while you chat.

Type 'salir' to exit.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	if assistantService == nil || ingestorService == nil {
		return errors.New("chat services not configured")
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, titleStyle.Render("Iniciando Lola Agent..."))

	if ingestorService.State() == domain.IngestStateEmpty {
		fmt.Fprintln(out, noticeStyle.Render("Iniciando población inicial..."))
		run, err := ingestorService.Populate(ctx)
		if err != nil {
			return fmt.Errorf("initial population failed: %w", err)
		}
		fmt.Fprintln(out, noticeStyle.Render(fmt.Sprintf(
			"Población inicial completada: %d archivos, %d fragmentos.",
			run.FilesProcessed, run.ChunksIndexed)))
	}

	stopScheduler := startScheduler(ctx)
	defer stopScheduler()

	fmt.Fprintln(out, titleStyle.Render("Lola está lista. Haz tus preguntas sobre tus documentos."))
	fmt.Fprintln(out, noticeStyle.Render("Escribe 'salir' para terminar."))

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "\n"+promptStyle.Render("Tu pregunta: "))
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if strings.EqualFold(input, exitWord) {
			break
		}

		answer := assistantService.AnswerQuery(ctx, input)
		fmt.Fprintln(out, "\n"+answerStyle.Render(answerPrefix+answer))
	}

	fmt.Fprintln(out, noticeStyle.Render("\nApagando Lola Agent..."))
	return scanner.Err()
}

// startScheduler launches the background sync scheduler when one is
// configured and returns a function that shuts it down.
func startScheduler(ctx context.Context) func() {
	if syncScheduler == nil {
		return func() {}
	}

	go func() {
		if err := syncScheduler.Start(ctx); err != nil {
			logger.Warn("Scheduler stopped: %v", err)
		}
	}()

	return func() {
		if err := syncScheduler.Stop(); err != nil {
			logger.Warn("Scheduler shutdown: %v", err)
		}
	}
}

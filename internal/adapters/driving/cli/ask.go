package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [pregunta]",
	Short: "Ask Lola a single question",
	Long: `Sends one question through the full pipeline - intent routing,
retrieval and synthesis - and prints the answer.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if assistantService == nil {
		return errors.New("assistant service not configured")
	}

	query := strings.Join(args, " ")
	answer := assistantService.AnswerQuery(cmd.Context(), query)
	cmd.Println(answer)
	return nil
}

package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

var writeCmd = &cobra.Command{
	Use:   "write [instrucción]",
	Short: "Append information to a managed document",
	Long: `Runs a writing instruction through the writing tool, bypassing
intent classification.

Examples:
  lola write "Añade al Q&A: P: Cuál es el objetivo? R: Ser líderes."
  lola write "Registra en el itinerario: 2025-12-05, 11 AM, Demo con Inversores"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWrite,
}

func init() {
	rootCmd.AddCommand(writeCmd)
}

func runWrite(cmd *cobra.Command, args []string) error {
	if assistantService == nil {
		return errors.New("assistant service not configured")
	}

	instruction := strings.Join(args, " ")
	result := assistantService.ExecuteWriting(cmd.Context(), instruction)
	cmd.Println(result)
	return nil
}

package cli

import (
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop every indexed transcript chunk",
	Long: `Drop and recreate the vector collection. Use this after switching
embedding providers. Cached transcripts are kept.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, _ []string) error {
	questions, err := questionService(cmd.Context())
	if err != nil {
		return err
	}
	if err := questions.Reset(cmd.Context()); err != nil {
		return err
	}
	cmd.Println("Collection reset.")
	return nil
}

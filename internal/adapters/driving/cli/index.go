package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index <url>...",
	Short: "Index videos without asking",
	Long: `Fetch, chunk and index the transcripts of one or more videos so later
questions are answered from the cache. Already indexed videos are refreshed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	questions, err := questionService(cmd.Context())
	if err != nil {
		return err
	}

	var urls []string
	for _, arg := range args {
		urls = append(urls, splitURLs(arg)...)
	}

	for _, u := range urls {
		n, err := questions.Ingest(cmd.Context(), u)
		if err != nil {
			return fmt.Errorf("index %s: %w", u, err)
		}
		cmd.Printf("Indexed %s: %d chunks\n", u, n)
	}
	return nil
}

package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Check AI providers",
	Long: `Show which LLM and embedding providers are configured and which one
ytqa would use. Configured providers are pinged.

Precedence:
  LLM:        Google, HuggingFace, OpenAI, Ollama
  Embeddings: OpenAI, HuggingFace, Ollama`,
	Args: cobra.NoArgs,
	RunE: runProviders,
}

func init() {
	providersCmd.Flags().Bool("json", false, "print statuses as JSON")
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, _ []string) error {
	settings, err := settingsService()
	if err != nil {
		return err
	}

	statuses := settings.CheckProviders(cmd.Context())

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON { //nolint:errcheck // flag is registered
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(statuses)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tPROVIDER\tMODEL\tSTATUS")
	for _, s := range statuses {
		status := "not configured"
		switch {
		case s.Error != "":
			status = "error: " + s.Error
		case s.Selected:
			status = "selected"
		case s.Configured:
			status = "available"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Kind, s.Provider, s.Model, status)
	}
	return w.Flush()
}

package cli

import (
	"bufio"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ytqa/internal/core/domain"
	"github.com/custodia-labs/ytqa/internal/logger"
)

var askCmd = &cobra.Command{
	Use:   "ask [url] [question]",
	Short: "Ask a question about a YouTube video",
	Long: `Answer a question using the transcript of a YouTube video.

Missing arguments are prompted for when running in a terminal. Several URLs
may be given separated by commas: all are indexed and the question is asked
about the first.

The answer is written to the configured output file (out/response.md by
default) in UTF-16 unless --encoding says otherwise.

Examples:
  ytqa ask https://youtu.be/dQw4w9WgXcQ "What is the song about?"
  ytqa ask --print --encoding utf-8
  ytqa ask "https://youtu.be/a,https://youtu.be/b" "Compare both talks" --json`,
	Args: cobra.MaximumNArgs(2),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().String("encoding", "", "answer file encoding: utf-8 or utf-16 (default from settings)")
	askCmd.Flags().StringP("output", "o", "", "answer file path (default from settings)")
	askCmd.Flags().BoolP("print", "p", false, "also print the answer")
	askCmd.Flags().Bool("json", false, "print the answer summary as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	rawURL, question := argAt(args, 0), argAt(args, 1)

	if rawURL == "" || question == "" {
		if !stdinIsTerminal() {
			return fmt.Errorf("%w: url and question are required when not running in a terminal", domain.ErrInvalidInput)
		}
		reader := bufio.NewReader(cmd.InOrStdin())
		if rawURL == "" {
			cmd.Print("YouTube URL(s): ")
			rawURL = readLine(reader)
		}
		if question == "" {
			cmd.Print("Question: ")
			question = readLine(reader)
		}
	}

	urls := splitURLs(rawURL)
	if len(urls) == 0 {
		return fmt.Errorf("%w: a YouTube URL is required", domain.ErrInvalidInput)
	}
	if question == "" {
		return fmt.Errorf("%w: a question is required", domain.ErrInvalidInput)
	}

	path, encoding, err := outputTarget(cmd)
	if err != nil {
		return err
	}

	questions, err := questionService(cmd.Context())
	if err != nil {
		return err
	}

	for _, u := range urls[1:] {
		n, err := questions.Ingest(cmd.Context(), u)
		if err != nil {
			return fmt.Errorf("index %s: %w", u, err)
		}
		logger.Info("Indexed %s (%d chunks)", u, n)
	}

	answer, err := questions.Ask(cmd.Context(), question, urls[0])
	if err != nil {
		return err
	}

	if err := writeAnswer(path, encoding, answer.Text); err != nil {
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json") //nolint:errcheck // flag is registered
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(answer)
	}

	if show, _ := cmd.Flags().GetBool("print"); show { //nolint:errcheck // flag is registered
		cmd.Println(answer.Text)
		cmd.Println()
	}
	cmd.Printf("Answer written to %s\n", path)
	return nil
}

// outputTarget resolves the answer file from flags, falling back to settings.
func outputTarget(cmd *cobra.Command) (string, domain.OutputEncoding, error) {
	path, _ := cmd.Flags().GetString("output")       //nolint:errcheck // flag is registered
	encoding, _ := cmd.Flags().GetString("encoding") //nolint:errcheck // flag is registered

	if path == "" || encoding == "" {
		settings, err := settingsService()
		if err != nil {
			return "", "", err
		}
		current, err := settings.Get()
		if err != nil {
			return "", "", fmt.Errorf("read settings: %w", err)
		}
		if path == "" {
			path = current.Output.Path
		}
		if encoding == "" {
			encoding = string(current.Output.Encoding)
		}
	}

	enc := domain.OutputEncoding(encoding)
	if !enc.IsValid() {
		return "", "", fmt.Errorf("%w: unknown encoding %q (want utf-8 or utf-16)", domain.ErrInvalidInput, encoding)
	}
	return path, enc, nil
}

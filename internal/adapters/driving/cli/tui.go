package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ytqa/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface.

Enter a video URL and a question, then read the answer in a scrollable
viewport. Settings can be edited and providers checked from the menu.

Controls:
  tab      - Next field
  enter    - Ask / Select
  n        - New question
  esc      - Back
  ?        - Toggle help
  ctrl+c   - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().String("url", "", "prefill the video URL")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	questions, err := questionService(cmd.Context())
	if err != nil {
		return err
	}
	settings, err := settingsService()
	if err != nil {
		return err
	}

	app, err := tui.NewApp(&tui.Ports{
		Questions: questions,
		Settings:  settings,
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	watchPrompts(cmd.Context())

	app.WithContext(cmd.Context())
	if url, _ := cmd.Flags().GetString("url"); url != "" { //nolint:errcheck // flag is registered
		app.WithURL(url)
	}

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

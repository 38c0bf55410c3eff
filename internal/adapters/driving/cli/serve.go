package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ytqa/internal/adapters/driving/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start a JSON HTTP API in front of the question pipeline.

Endpoints:
  POST   /api/v1/ask     {"url": "...", "query": "..."}
  POST   /api/v1/index   {"url": "..."}
  DELETE /api/v1/index
  GET    /healthz

Prompt templates are reloaded when their files change.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from settings, :8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	settings, err := settingsService()
	if err != nil {
		return err
	}
	current, err := settings.Get()
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}

	addr, _ := cmd.Flags().GetString("addr") //nolint:errcheck // flag is registered
	if addr == "" {
		addr = current.Server.Addr
	}

	questions, err := questionService(cmd.Context())
	if err != nil {
		return err
	}

	server, err := httpapi.NewServer(&httpapi.Ports{Questions: questions}, httpapi.Config{
		ReadTimeout:  current.Server.ReadTimeout,
		WriteTimeout: current.Server.WriteTimeout,
	})
	if err != nil {
		return err
	}

	watchPrompts(cmd.Context())

	cmd.Printf("HTTP API listening on %s\n", addr)
	return server.Run(cmd.Context(), addr)
}

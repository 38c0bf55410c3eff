package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ytqa/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can ask
questions about YouTube videos.

Tools:
  ask_video    answer a question about a video
  index_video  index a video ahead of time

By default the server speaks JSON-RPC over stdio. Use --http to serve the
streamable HTTP transport instead.

Examples:
  ytqa mcp
  ytqa mcp --http :8081

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "ytqa": {
        "command": "/path/to/ytqa",
        "args": ["mcp"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().String("http", "", "serve over HTTP on this address instead of stdio")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	addr, err := cmd.Flags().GetString("http")
	if err != nil {
		return fmt.Errorf("getting http flag: %w", err)
	}

	questions, err := questionService(cmd.Context())
	if err != nil {
		return err
	}
	settings, err := settingsService()
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Questions: questions,
		Settings:  settings,
	})
	if err != nil {
		return err
	}

	if addr != "" {
		// stdout is the transport in stdio mode, so only announce HTTP.
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on %s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}

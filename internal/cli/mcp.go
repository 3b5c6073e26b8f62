package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/solution-insight/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for solution mapping and code extracts",
	Long: `Start the Model Context Protocol (MCP) server so coding assistants can map
and read C# solutions on demand.

The MCP server:
- Provides the project_mapping tool (types and methods of every file as JSON)
- Provides the full_code_extract tool (verbatim source of a folder)
- Communicates via stdio (standard MCP transport)

Tool defaults come from the same configuration as the map and extract commands.

Example:
  insight mcp`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// stdout carries the protocol; diagnostics go to stderr.
	log.SetOutput(cmd.ErrOrStderr())

	server, err := mcp.NewServer(cfg, Version)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	if err := server.Serve(cmd.Context()); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}

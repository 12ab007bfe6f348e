package cmd

import (
	"github.com/huangsam/githeat/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the githeat MCP server",
	Long: `Launch an MCP server on stdio so AI agents can rank repository files by age and change frequency.

Tools:
  analyze_repository - commit age and change frequency for one repository
  list_repositories  - repositories from the config file`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Logs go to stderr; stdout is reserved for the protocol
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, runManager, version)
	},
}

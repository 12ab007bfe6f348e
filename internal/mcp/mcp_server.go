// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/githeat/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the githeat MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"githeat",
		version,
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	s.AddTool(mcp.NewTool("analyze_repository",
		mcp.WithDescription("Report how many days ago each file last changed and how often it changed recently."),
		mcp.WithString("repo_path", mcp.Description("Path to the repository (defaults to the first configured repository).")),
		mcp.WithString("view", mcp.Description("Which metric to rank by. Defaults to 'both'."), mcp.Enum("both", "age", "frequency")),
		mcp.WithNumber("recent_days", mcp.Description("Length of the trailing window for change frequency, in days.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of files per view.")),
		mcp.WithString("ext", mcp.Description("Comma-separated file extensions to include (e.g. '.go,.md').")),
		mcp.WithString("as_of", mcp.Description("Reference time as ISO8601 or 'N days ago' (defaults to now).")),
	), h.handleAnalyzeRepository)

	s.AddTool(mcp.NewTool("list_repositories",
		mcp.WithDescription("List the repositories named in the githeat config file."),
	), h.handleListRepositories)

	return s
}

// StartMCPServer starts the githeat MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager, version string) error {
	s := NewMCPServer(baseCfg, mgr, version)
	return server.ServeStdio(s)
}

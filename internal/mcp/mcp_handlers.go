package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/githeat/core"
	"github.com/huangsam/githeat/internal/contract"
	"github.com/huangsam/githeat/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// applyArguments overlays tool arguments on a copy of the base config.
func (h *toolHandler) applyArguments(request mcp.CallToolRequest) (*contract.Config, string, error) {
	cfg := h.baseCfg.Clone()

	repo := request.GetString("repo_path", "")
	if repo == "" {
		if len(cfg.Repositories) == 0 {
			return nil, "", core.ErrNoRepositories
		}
		repo = cfg.Repositories[0]
	}

	if v := request.GetString("view", ""); v != "" {
		view := schema.MetricView(v)
		if _, ok := schema.ValidMetricViews[view]; !ok {
			return nil, "", fmt.Errorf("invalid view %q", v)
		}
		cfg.View = view
	}
	if args := request.GetArguments(); args["recent_days"] != nil {
		days := request.GetInt("recent_days", cfg.RecentDays)
		if days < 0 {
			return nil, "", fmt.Errorf("recent_days must be non-negative, got %d", days)
		}
		cfg.RecentDays = days
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = min(l, contract.MaxResultLimit)
	}
	if ext := request.GetString("ext", ""); ext != "" {
		cfg.Extensions = contract.SplitList(ext)
	}

	// The server outlives any single request, so "now" is taken per call.
	now, err := contract.ParseReferenceTime(request.GetString("as_of", ""), time.Now())
	if err != nil {
		return nil, "", err
	}
	cfg.Now = now
	return cfg, repo, nil
}

func (h *toolHandler) handleAnalyzeRepository(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, repo, err := h.applyArguments(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	report, err := core.GetRepositoryReport(ctx, cfg, h.mgr, repo)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListRepositories(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repos := h.baseCfg.Repositories
	if repos == nil {
		repos = []string{}
	}
	jsonData, _ := json.MarshalIndent(repos, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

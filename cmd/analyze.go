package cmd

import (
	"github.com/huangsam/githeat/core"
	"github.com/huangsam/githeat/internal/contract"
	"github.com/huangsam/githeat/schema"
	"github.com/spf13/cobra"
)

// runView returns a Run function that analyzes with the given metric view.
func runView(view schema.MetricView) func(*cobra.Command, []string) {
	return func(_ *cobra.Command, _ []string) {
		cfg.View = view
		if err := core.ExecuteAnalysis(rootCtx, cfg, runManager); err != nil {
			contract.LogFatal("Cannot run analysis", err)
		}
	}
}

// analyzeCmd ranks files by both commit age and change frequency.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [repo-path...]",
	Short: "Show commit age and change frequency tables for each repository.",
	Long: `Walk every file of each repository and rank it two ways:

- Commit age: days since the newest commit touching the file, oldest first
- Change frequency: commits touching the file within --recent-days, busiest first

Repositories come from positional arguments, or from the "repositories" list
of the config file when none are given. Use --repo to pick one configured entry.

Examples:
  # Analyze the current repository
  githeat analyze .

  # Analyze every configured repository over the last week
  githeat analyze --recent-days 7

  # Only Go and Markdown files, exported as JSON
  githeat analyze . --ext .go,.md --output json --output-file heat.json

  # Pin the reference time for reproducible output
  githeat analyze . --as-of 2025-01-01T00:00:00Z`,
	Args:    cobra.ArbitraryArgs,
	PreRunE: sharedSetupWrapper,
	Run:     runView(schema.BothView),
}

// ageCmd ranks files by commit age only.
var ageCmd = &cobra.Command{
	Use:   "age [repo-path]",
	Short: "Show the files that have gone longest without a commit.",
	Long: `Rank files by days since their last commit, oldest first.

Files with no history at all show an age of 0 and are marked as unresolved.

Examples:
  githeat age .
  githeat age ~/src/project --limit 50`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runView(schema.AgeView),
}

// frequencyCmd ranks files by recent change frequency only.
var frequencyCmd = &cobra.Command{
	Use:   "frequency [repo-path]",
	Short: "Show the files changed most often in the recent window.",
	Long: `Rank files by the number of commits touching them within --recent-days, most frequent first.

Examples:
  githeat frequency .
  githeat frequency . --recent-days 90 --ext .go`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runView(schema.FrequencyView),
}

// Package cmd defines the command-line interface for githeat.
package cmd

import (
	"github.com/huangsam/githeat/internal/contract"
	"github.com/huangsam/githeat/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(ageCmd)
	rootCmd.AddCommand(frequencyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configAddRepoCmd)
	configCmd.AddCommand(configRemoveRepoCmd)
	configCmd.AddCommand(configInitCmd)

	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().Int("recent-days", contract.DefaultRecentDays, "Days counted by the change frequency window")
	rootCmd.PersistentFlags().String("ext", "", "Comma-separated list of file extensions to keep (e.g. .go,.md)")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of files to display per view")
	rootCmd.PersistentFlags().String("exclude", "", "Comma-separated list of gitignore-style patterns to skip")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().String("history-backend", string(schema.GoGitHistory), "History backend: gogit or git")
	rootCmd.PersistentFlags().String("as-of", "", "Reference time in ISO8601 or time ago (default now)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("repo", "", "Analyze only this configured repository")
	rootCmd.PersistentFlags().String("runs-backend", "", "Run tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("runs-db-connect", "", "Database connection string for run tracking (e.g., user:pass@tcp(host:port)/dbname?parseTime=true)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log per-file lookup failures")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	configInitCmd.Flags().Bool("force", false, "Overwrite an existing config file")
	if err := viper.BindPFlags(configInitCmd.Flags()); err != nil {
		contract.LogFatal("Error binding config init flags", err)
	}

	runsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(runsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs migrate flags", err)
	}
}

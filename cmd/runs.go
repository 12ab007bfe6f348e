package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/huangsam/githeat/internal/contract"
	"github.com/huangsam/githeat/internal/iocache"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runsSetup loads the minimal configuration needed by run store commands.
// It skips repository resolution, and opens the store only when openStore is set
// so migrations can run against a fresh database.
func runsSetup(openStore bool) error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend, err := contract.ParseRunsBackend(viper.GetString("runs-backend"))
	if err != nil {
		return err
	}
	connStr := viper.GetString("runs-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.RunsBackend = backend
	cfg.RunsDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")

	if !openStore {
		return nil
	}
	return iocache.InitRunTracking(backend, connStr)
}

// runsSetupWrapper opens the run store before the command runs.
func runsSetupWrapper(_ *cobra.Command, _ []string) error {
	return runsSetup(true)
}

// runsNoStoreSetupWrapper loads config without opening the run store.
func runsNoStoreSetupWrapper(_ *cobra.Command, _ []string) error {
	return runsSetup(false)
}

// runsCmd manages the run history store.
//
// Note: Runs subcommands use minimal initialization (runsSetup) instead of
// the full sharedSetup used by analysis commands. No repository is needed.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage the history of recorded analysis runs",
	Long: `Manage the run history written by analysis commands when --runs-backend is set.

Each run stores its repository, reference time, window and duration, plus one row
per file with its commit age, change frequency and whether its history resolved.
Stored runs are never read back into an analysis.

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, the default)

Subcommands:
  status  - Show run tracking statistics
  export  - Export runs to Parquet
  clear   - Remove all recorded runs
  migrate - Run database schema migrations

Examples:
  # Record runs in the default SQLite database
  githeat analyze . --runs-backend sqlite
  githeat runs status --runs-backend sqlite`,
}

// runsStatusCmd shows run tracking status.
var runsStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display run tracking statistics and connection details",
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetRunStore()
		if store == nil {
			contract.LogFatal("Failed to get run status", errors.New("run tracking is not initialized"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get run status", err)
		}
		iocache.PrintRunStatus(os.Stdout, status)
	},
}

// runsExportCmd exports recorded runs to Parquet files.
var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded runs to Parquet for analytics tools",
	Long: `Export all recorded runs to two Parquet files next to --output-file:

  <output-file>.runs.parquet          one row per run
  <output-file>.file_metrics.parquet  one row per file per run

Examples:
  githeat runs export --runs-backend sqlite --output-file heat
  duckdb -c "SELECT * FROM read_parquet('heat.file_metrics.parquet') LIMIT 10"`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		err := iocache.ExportRuns(iocache.Manager.GetRunStore(), cfg.OutputFile)
		if errors.Is(err, iocache.ErrNothingToExport) {
			fmt.Println("No runs recorded yet. Nothing to export.")
			return
		}
		if err != nil {
			contract.LogFatal("Failed to export runs", err)
		}
	},
}

// runsClearCmd clears the recorded runs.
var runsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded runs",
	Long: `Delete every recorded run and its file metrics.

For SQLite the database file is removed; for MySQL and PostgreSQL the run tables are dropped.

WARNING: This action cannot be undone. Consider exporting data first.`,
	PreRunE: runsNoStoreSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		dbFilePath := cfg.RunsDBConnect
		if dbFilePath == "" {
			dbFilePath = contract.GetRunsDBFilePath()
		}
		if err := iocache.ClearRuns(cfg.RunsBackend, dbFilePath, cfg.RunsDBConnect); err != nil {
			contract.LogFatal("Failed to clear runs", err)
		}
		fmt.Println("Run history cleared successfully.")
	},
}

// runsMigrateCmd runs database migrations for the run store.
var runsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage schema versions of the run store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  githeat runs migrate --runs-backend postgresql --runs-db-connect "host=localhost dbname=githeat"

  # Rollback to initial state
  githeat runs migrate --runs-backend sqlite --target-version 0`,
	PreRunE: runsNoStoreSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateRuns(cfg.RunsBackend, cfg.RunsDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}

package contract

import (
	"fmt"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/githeat/schema"
)

// Default values for configuration.
const (
	DefaultRecentDays  = 30
	DefaultResultLimit = 25
	MaxResultLimit     = 1000
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// DefaultExcludes are gitignore-style patterns hidden from reports unless overridden.
var DefaultExcludes = []string{".git/"}

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for the analysis.
// This struct remains the "final, validated" config.
type Config struct {
	Repositories   []string
	SelectedRepo   string
	RecentDays     int
	Extensions     []string
	ResultLimit    int
	Workers        int
	Excludes       []string
	View           schema.MetricView
	Output         schema.OutputMode
	OutputFile     string
	Width          int // Terminal width override (0 = auto-detect)
	HistoryBackend schema.HistoryBackend

	// Now is the reference time for every repository in one invocation.
	Now time.Time

	RunsBackend   schema.DatabaseBackend
	RunsDBConnect string // Please use env var as this is plaintext

	UseColors bool // Enable colored labels in table output
	Verbose   bool
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RepoPathArgs []string

	// --- Fields from the config file only ---
	Repositories []string `mapstructure:"repositories"`

	// --- Fields from rootCmd.PersistentFlags() ---
	Repo           string `mapstructure:"repo"`
	RecentDays     int    `mapstructure:"recent-days"`
	Ext            string `mapstructure:"ext"`
	Limit          int    `mapstructure:"limit"`
	Workers        int    `mapstructure:"workers"`
	Exclude        string `mapstructure:"exclude"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Width          int    `mapstructure:"width"`
	HistoryBackend string `mapstructure:"history-backend"`
	AsOf           string `mapstructure:"as-of"`
	RunsBackend    string `mapstructure:"runs-backend"`
	RunsDBConnect  string `mapstructure:"runs-db-connect"`
	Color          string `mapstructure:"color"`
	Verbose        bool   `mapstructure:"verbose"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Repositories = slices.Clone(c.Repositories)
	clone.Extensions = slices.Clone(c.Extensions)
	clone.Excludes = slices.Clone(c.Excludes)
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processReferenceTime(cfg, input); err != nil {
		return err
	}
	if err := resolveRepositories(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("runs-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("runs-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParseRunsBackend maps the raw backend string, treating empty as disabled.
func ParseRunsBackend(raw string) (schema.DatabaseBackend, error) {
	if strings.TrimSpace(raw) == "" {
		return schema.NoneBackend, nil
	}
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid runs backend '%s'. must be sqlite, mysql, postgresql, none", raw)
	}
	return backend, nil
}

// validateBackendConfigs validates the history and run tracking backends.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.HistoryBackend = schema.HistoryBackend(strings.ToLower(strings.TrimSpace(input.HistoryBackend)))
	if cfg.HistoryBackend == "" {
		cfg.HistoryBackend = schema.GoGitHistory
	}
	if _, ok := schema.ValidHistoryBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be gogit, git", input.HistoryBackend)
	}

	backend, err := ParseRunsBackend(input.RunsBackend)
	if err != nil {
		return err
	}
	cfg.RunsBackend = backend
	cfg.RunsDBConnect = input.RunsDBConnect
	return ValidateDatabaseConnectionString(cfg.RunsBackend, cfg.RunsDBConnect)
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Verbose = input.Verbose

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Window Validation ---
	if input.RecentDays < 0 {
		return fmt.Errorf("recent-days cannot be negative (received %d)", input.RecentDays)
	}
	cfg.RecentDays = input.RecentDays

	// --- 2. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 3. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 4. Output Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}

	// --- 5. Extension and Exclude Processing ---
	cfg.Extensions = SplitList(input.Ext)
	cfg.Excludes = append(slices.Clone(DefaultExcludes), SplitList(input.Exclude)...)

	if cfg.View == "" {
		cfg.View = schema.BothView
	}
	return nil
}

// processReferenceTime pins the analysis reference time once per invocation.
func processReferenceTime(cfg *Config, input *ConfigRawInput) error {
	now, err := ParseReferenceTime(input.AsOf, time.Now())
	if err != nil {
		return err
	}
	cfg.Now = now
	return nil
}

// resolveRepositories picks the repositories to analyze. Positional arguments
// win over the configured list; --repo narrows the configured list to one entry.
func resolveRepositories(cfg *Config, input *ConfigRawInput) error {
	source := input.RepoPathArgs
	if len(source) == 0 {
		source = input.Repositories
	}

	repos := make([]string, 0, len(source))
	for _, p := range source {
		abs, err := NormalizeRepoPath(p)
		if err != nil {
			return err
		}
		if !slices.Contains(repos, abs) {
			repos = append(repos, abs)
		}
	}

	cfg.SelectedRepo = ""
	if strings.TrimSpace(input.Repo) != "" {
		selected, err := NormalizeRepoPath(input.Repo)
		if err != nil {
			return err
		}
		if !slices.Contains(repos, selected) {
			return fmt.Errorf("repository %q is not configured", input.Repo)
		}
		cfg.SelectedRepo = selected
		repos = []string{selected}
	}

	cfg.Repositories = repos
	return nil
}

// NormalizeRepoPath makes a repository path absolute and clean.
func NormalizeRepoPath(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", ErrMissingRepoPath
	}
	if strings.HasPrefix(p, "~/") {
		if home, err := userHomeDir(); err == nil {
			p = filepath.Join(home, p[2:])
		}
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("cannot resolve repository path %q: %w", p, err)
	}
	return filepath.Clean(abs), nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
}

// SplitList splits a comma-separated flag value, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for p := range strings.SplitSeq(s, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

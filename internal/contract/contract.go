// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"errors"
	"time"

	"github.com/huangsam/githeat/schema"
)

// Sentinel errors shared by history backends and callers.
var (
	// ErrMissingRepoPath is returned when an analysis is requested without a repository path.
	ErrMissingRepoPath = errors.New("repository path is required")

	// ErrStoreNotFound is returned when no repository encloses the requested path.
	ErrStoreNotFound = errors.New("no enclosing repository found")

	// ErrNoHistory is returned when a repository has no recorded change for a path.
	ErrNoHistory = errors.New("no recorded history for path")
)

// HistoryStore is an open handle on one repository's recorded history.
// Paths passed to it are slash-separated and relative to Root.
type HistoryStore interface {
	// Root returns the absolute path of the repository's working tree.
	Root() string

	// LastChange returns the committer time of the newest commit touching rel
	// that is not after until. It returns ErrNoHistory when there is none.
	LastChange(ctx context.Context, rel string, until time.Time) (time.Time, error)

	// CountChanges returns how many distinct commits touching rel have a
	// committer time in the closed interval [since, until].
	CountChanges(ctx context.Context, rel string, since, until time.Time) (int, error)

	// Close releases the underlying repository handle.
	Close() error
}

// HistoryOpener locates and opens the repository enclosing a path.
type HistoryOpener interface {
	// FindEnclosingHistoryStore searches path and its ancestors for a repository.
	// It returns ErrStoreNotFound when none exists. The caller owns the returned store.
	FindEnclosingHistoryStore(ctx context.Context, path string) (HistoryStore, error)
}

// StoreManager defines the interface for managing persistence stores.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetRunStore() RunStore
}

// RunStore defines the interface for tracking analysis runs and their per-file metrics.
// Stored results are never read back into an analysis.
type RunStore interface {
	// BeginRun creates a new run and returns its ID and UUID
	BeginRun(startTime time.Time, result *schema.AnalysisResult, configParams map[string]any) (int64, string, error)

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, totalFiles int) error

	// RecordFileMetrics stores the metrics of one file for a run
	RecordFileMetrics(runID int64, filePath string, metrics schema.FileMetrics) error

	// GetStatus returns status information about the run store
	GetStatus() (schema.RunStatus, error)

	// GetAllRuns returns every stored run
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllFileMetrics returns every stored file metrics row
	GetAllFileMetrics() ([]schema.FileMetricsRecord, error)

	// Close closes the underlying connection
	Close() error
}

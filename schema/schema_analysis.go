package schema

import (
	"sort"
	"time"
)

// TimeLookup is the outcome of a most-recent-change lookup for one file.
type TimeLookup struct {
	Status LookupStatus
	Time   time.Time // Valid only when Status is LookupOK
	Err    error     // Set when Status is LookupStoreError
}

// CountLookup is the outcome of a change-count lookup for one file.
type CountLookup struct {
	Status LookupStatus
	Count  int   // Zero unless Status is LookupOK
	Err    error // Set when Status is LookupStoreError
}

// OK reports whether the lookup resolved a timestamp.
func (l TimeLookup) OK() bool { return l.Status == LookupOK }

// OK reports whether the lookup resolved a count.
func (l CountLookup) OK() bool { return l.Status == LookupOK }

// AnalysisResult holds the two per-file metric maps for one repository.
// CommitAge and ChangeFrequency always share the same key set.
type AnalysisResult struct {
	RepoPath        string                  `json:"repo_path"`
	Now             time.Time               `json:"now"`
	RecentDays      int                     `json:"recent_days"`
	CommitAge       map[string]int          `json:"commit_age"`
	ChangeFrequency map[string]int          `json:"change_frequency"`
	Resolution      map[string]LookupStatus `json:"resolution"`
}

// NewAnalysisResult returns a result with empty, non-nil maps.
func NewAnalysisResult(repoPath string, now time.Time, recentDays int) *AnalysisResult {
	return &AnalysisResult{
		RepoPath:        repoPath,
		Now:             now,
		RecentDays:      recentDays,
		CommitAge:       make(map[string]int),
		ChangeFrequency: make(map[string]int),
		Resolution:      make(map[string]LookupStatus),
	}
}

// Record stores both metrics for a file.
func (r *AnalysisResult) Record(path string, age, frequency int, status LookupStatus) {
	r.CommitAge[path] = age
	r.ChangeFrequency[path] = frequency
	r.Resolution[path] = status
}

// Len returns the number of files in the result.
func (r *AnalysisResult) Len() int {
	return len(r.CommitAge)
}

// Paths returns every file path in the result, sorted.
func (r *AnalysisResult) Paths() []string {
	paths := make([]string, 0, len(r.CommitAge))
	for p := range r.CommitAge {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Resolved reports whether history was found for the given file.
func (r *AnalysisResult) Resolved(path string) bool {
	return r.Resolution[path] == LookupOK
}

// FileHeat is one ranked row of a metric view.
type FileHeat struct {
	Path     string `json:"path"`
	Value    int    `json:"value"`
	Resolved bool   `json:"resolved"`
}

// FileMetrics is the pair of metrics recorded for one file in a run.
type FileMetrics struct {
	CommitAgeDays   int
	ChangeFrequency int
	Resolved        bool
}

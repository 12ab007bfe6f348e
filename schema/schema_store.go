package schema

import "time"

// RunRecord represents a row from the githeat_runs table.
type RunRecord struct {
	RunID              int64
	RunUUID            string
	RepoPath           string
	ReferenceTime      time.Time
	RecentDays         int32
	StartTime          time.Time
	EndTime            *time.Time
	RunDurationMs      *int64
	TotalFilesAnalyzed *int32
	ConfigParams       *string
}

// FileMetricsRecord represents a row from the githeat_file_metrics table.
type FileMetricsRecord struct {
	RunID           int64
	FilePath        string
	CommitAgeDays   int32
	ChangeFrequency int32
	Resolved        bool
}

// Package parquet exports githeat run history and reports to Parquet files
// using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/githeat/schema"
	"github.com/parquet-go/parquet-go"
)

// Run is one tracked analysis of a repository.
// This struct maps to the githeat_runs database table.
type Run struct {
	RunID   int64  `parquet:"run_id,snappy"`
	RunUUID string `parquet:"run_uuid,snappy"`

	// RepoPath is the repository root the run analyzed
	RepoPath string `parquet:"repo_path,snappy"`

	// ReferenceTime is the "now" every metric of the run was computed against
	ReferenceTime time.Time `parquet:"reference_time,snappy"`
	RecentDays    int32     `parquet:"recent_days,snappy"`

	StartTime time.Time  `parquet:"start_time,snappy"`
	EndTime   *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is nil until the run is finalized
	RunDurationMs      *int64 `parquet:"run_duration_ms,optional,snappy"`
	TotalFilesAnalyzed *int32 `parquet:"total_files_analyzed,optional,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// FileMetrics is the age and frequency of one file within a run.
// This struct maps to the githeat_file_metrics database table.
type FileMetrics struct {
	RunID           int64  `parquet:"run_id,snappy"`
	FilePath        string `parquet:"file_path,snappy"`
	CommitAgeDays   int32  `parquet:"commit_age_days,snappy"`
	ChangeFrequency int32  `parquet:"change_frequency,snappy"`
	Resolved        bool   `parquet:"resolved"`
}

// FileHeatRow is one ranked row of a report, flattened for --output parquet.
type FileHeatRow struct {
	RepoPath string  `parquet:"repo_path,dict,snappy"`
	View     string  `parquet:"view,dict,snappy"`
	Rank     int32   `parquet:"rank,snappy"`
	Path     string  `parquet:"path,snappy"`
	Value    int32   `parquet:"value,snappy"`
	Heat     float64 `parquet:"heat,snappy"`
	Label    string  `parquet:"label,dict,snappy"`
	Resolved bool    `parquet:"resolved"`
}

// writeRows streams rows to w, deriving the schema from T's struct tags.
func writeRows[T any](w io.Writer, data []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// writeRowsToFile creates outputPath and writes rows to it.
func writeRowsToFile[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := writeRows(file, data); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteRunsParquet writes runs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeRowsToFile(data, outputPath)
}

// WriteFileMetricsParquet writes file metrics to a Parquet file.
func WriteFileMetricsParquet(data []FileMetrics, outputPath string) error {
	return writeRowsToFile(data, outputPath)
}

// WriteFileHeat writes report rows to w.
func WriteFileHeat(w io.Writer, data []FileHeatRow) error {
	return writeRows(w, data)
}

// ConvertRunRecords converts stored runs to Parquet rows.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:              record.RunID,
			RunUUID:            record.RunUUID,
			RepoPath:           record.RepoPath,
			ReferenceTime:      record.ReferenceTime,
			RecentDays:         record.RecentDays,
			StartTime:          record.StartTime,
			EndTime:            record.EndTime,
			RunDurationMs:      record.RunDurationMs,
			TotalFilesAnalyzed: record.TotalFilesAnalyzed,
			ConfigParams:       record.ConfigParams,
		}
	}
	return result
}

// ConvertFileMetricsRecords converts stored file metrics to Parquet rows.
func ConvertFileMetricsRecords(records []schema.FileMetricsRecord) []FileMetrics {
	result := make([]FileMetrics, len(records))
	for i, record := range records {
		result[i] = FileMetrics(record)
	}
	return result
}

// ConvertReports flattens both views of every report into rows.
func ConvertReports(reports []*schema.RepositoryReport) []FileHeatRow {
	var rows []FileHeatRow
	for _, report := range reports {
		rows = appendView(rows, report.RepoPath, schema.AgeView, report.CommitAge)
		rows = appendView(rows, report.RepoPath, schema.FrequencyView, report.ChangeFrequency)
	}
	return rows
}

func appendView(rows []FileHeatRow, repo string, view schema.MetricView, heat []schema.EnrichedFileHeat) []FileHeatRow {
	for _, h := range heat {
		rows = append(rows, FileHeatRow{
			RepoPath: repo,
			View:     string(view),
			Rank:     int32(h.Rank),
			Path:     h.Path,
			Value:    int32(h.Value),
			Heat:     h.Heat,
			Label:    h.Label,
			Resolved: h.Resolved,
		})
	}
	return rows
}

// Package outwriter renders analysis reports as tables, CSV, JSON or Parquet.
package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/huangsam/githeat/internal/contract"
	"github.com/huangsam/githeat/internal/parquet"
	"github.com/huangsam/githeat/schema"
)

// OutWriter provides a unified interface for all output operations.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteReports outputs every repository report, dispatching on cfg.Output.
func (ow *OutWriter) WriteReports(reports []*schema.RepositoryReport, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportsJSON(w, reports)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportsCSV(w, reports)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.WriteFileHeat(w, parquet.ConvertReports(reports))
		}, "Wrote Parquet"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportTables(w, reports, cfg, duration)
		}, "Wrote table")
	}
	return nil
}

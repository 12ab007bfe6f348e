package iocache

import (
	"errors"
	"fmt"

	"github.com/huangsam/githeat/internal/contract"
	"github.com/huangsam/githeat/internal/parquet"
)

// ErrNothingToExport is returned when the run store holds no runs.
var ErrNothingToExport = errors.New("no run data found to export")

// ExportRuns writes every stored run and file metrics row to two Parquet files
// named after outputFile.
func ExportRuns(store contract.RunStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("run tracking is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get run status: %w", err)
	}
	if status.TotalRuns == 0 {
		return ErrNothingToExport
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total runs: %d\n", status.TotalRuns)
	fmt.Printf("Total file records: %d\n", status.TableSizes[fileMetricsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	fileMetrics, err := store.GetAllFileMetrics()
	if err != nil {
		return fmt.Errorf("failed to retrieve file metrics: %w", err)
	}

	runRows := parquet.ConvertRunRecords(runs)
	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(runRows, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(runRows), runsFile)

	metricRows := parquet.ConvertFileMetricsRecords(fileMetrics)
	metricsFile := outputFile + ".file_metrics.parquet"
	if err := parquet.WriteFileMetricsParquet(metricRows, metricsFile); err != nil {
		return fmt.Errorf("failed to write file metrics: %w", err)
	}
	fmt.Printf("Exported %d file metric records to: %s\n", len(metricRows), metricsFile)

	return nil
}

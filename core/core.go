// Package core has core logic for walking, resolving and ranking file history.
package core

import (
	"context"
	"errors"
	"time"

	"github.com/huangsam/githeat/internal/contract"
	"github.com/huangsam/githeat/internal/outwriter"
	"github.com/huangsam/githeat/schema"
	"github.com/sirupsen/logrus"
)

// ErrNoRepositories is returned when neither arguments nor the config file name a repository.
var ErrNoRepositories = errors.New("no repositories configured: pass a path or add one with 'githeat config add-repo'")

// ExecuteAnalysis analyzes each configured repository in turn, records each run
// when tracking is enabled, and writes the views selected by cfg.View.
func ExecuteAnalysis(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	if len(cfg.Repositories) == 0 {
		return ErrNoRepositories
	}
	start := time.Now()

	reports := make([]*schema.RepositoryReport, 0, len(cfg.Repositories))
	for _, repo := range cfg.Repositories {
		report, err := GetRepositoryReport(ctx, cfg, mgr, repo)
		if err != nil {
			return err
		}
		reports = append(reports, report)
	}
	return outwriter.NewOutWriter().WriteReports(reports, cfg, time.Since(start))
}

// GetRepositoryReport analyzes one repository, records the run and returns
// the ranked views selected by cfg.View.
func GetRepositoryReport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, repo string) (*schema.RepositoryReport, error) {
	result, err := runTrackedAnalysis(ctx, cfg, OptionsFromConfig(cfg), mgr, repo)
	if err != nil {
		return nil, err
	}
	return BuildReport(result, cfg.View, cfg.ResultLimit), nil
}

// OptionsFromConfig maps the validated config onto analysis options.
func OptionsFromConfig(cfg *contract.Config) Options {
	return Options{
		RecentDays: cfg.RecentDays,
		Extensions: cfg.Extensions,
		Now:        cfg.Now,
		Opener:     NewHistoryOpener(cfg.HistoryBackend),
		Workers:    cfg.Workers,
		Exclude:    contract.NewExcludeMatcher(cfg.Excludes),
	}
}

// runTrackedAnalysis analyzes one repository and records the run afterwards.
func runTrackedAnalysis(ctx context.Context, cfg *contract.Config, opts Options, mgr contract.StoreManager, repo string) (*schema.AnalysisResult, error) {
	startTime := time.Now()
	result, err := Analyze(ctx, repo, opts)
	if err != nil {
		return nil, err
	}
	contract.Logger.WithFields(logrus.Fields{
		"repo":     result.RepoPath,
		"files":    result.Len(),
		"duration": time.Since(startTime).String(),
	}).Debug("analysis finished")

	if mgr != nil {
		if store := mgr.GetRunStore(); store != nil {
			recordRun(store, cfg, result, startTime)
		}
	}
	return result, nil
}

// recordRun persists a finished analysis. Tracking failures are logged and never
// fail the analysis itself.
func recordRun(store contract.RunStore, cfg *contract.Config, result *schema.AnalysisResult, startTime time.Time) {
	configParams := map[string]any{
		"recent_days":     cfg.RecentDays,
		"extensions":      cfg.Extensions,
		"excludes":        cfg.Excludes,
		"workers":         cfg.Workers,
		"result_limit":    cfg.ResultLimit,
		"history_backend": string(cfg.HistoryBackend),
	}
	runID, runUUID, err := store.BeginRun(startTime, result, configParams)
	if err != nil {
		contract.LogWarn("Run tracking initialization failed", err)
		return
	}
	if runID <= 0 {
		return // Tracking disabled
	}

	for _, path := range result.Paths() {
		metrics := schema.FileMetrics{
			CommitAgeDays:   result.CommitAge[path],
			ChangeFrequency: result.ChangeFrequency[path],
			Resolved:        result.Resolved(path),
		}
		if err := store.RecordFileMetrics(runID, path, metrics); err != nil {
			contract.Logger.WithError(err).WithField("file", path).Warn("failed to record file metrics")
		}
	}

	if err := store.EndRun(runID, time.Now(), result.Len()); err != nil {
		contract.LogWarn("Failed to finalize run tracking", err)
		return
	}
	contract.Logger.WithField("run_id", runID).WithField("run_uuid", runUUID).Debug("run recorded")
}

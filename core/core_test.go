package core

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/githeat/internal/contract"
	"github.com/huangsam/githeat/internal/gitstore"
	"github.com/huangsam/githeat/internal/iocache"
	"github.com/huangsam/githeat/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// jsonConfig returns a config that writes JSON reports to a temp file.
func jsonConfig(t *testing.T, repos ...string) *contract.Config {
	t.Helper()
	return &contract.Config{
		Repositories:   repos,
		RecentDays:     30,
		ResultLimit:    10,
		Workers:        1,
		Excludes:       contract.DefaultExcludes,
		View:           schema.BothView,
		Output:         schema.JSONOut,
		OutputFile:     filepath.Join(t.TempDir(), "report.json"),
		HistoryBackend: schema.GoGitHistory,
		Now:            fixedNow,
	}
}

func readReports(t *testing.T, path string) []schema.RepositoryReport {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var reports []schema.RepositoryReport
	require.NoError(t, json.Unmarshal(data, &reports))
	return reports
}

func TestExecuteAnalysis_NoRepositories(t *testing.T) {
	cfg := jsonConfig(t)
	err := ExecuteAnalysis(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, ErrNoRepositories)
}

func TestExecuteAnalysis_MultipleRepositories(t *testing.T) {
	first := gitstore.NewFixture(t)
	first.Touch("a.go", daysAgo(3))
	first.Touch("a.go", daysAgo(1))
	second := gitstore.NewFixture(t)
	second.Touch("README.md", daysAgo(90))

	cfg := jsonConfig(t, first.Dir, second.Dir)
	require.NoError(t, ExecuteAnalysis(context.Background(), cfg, nil))

	reports := readReports(t, cfg.OutputFile)
	require.Len(t, reports, 2)

	assert.Equal(t, 1, reports[0].TotalFiles)
	require.Len(t, reports[0].ChangeFrequency, 1)
	assert.Equal(t, "a.go", reports[0].ChangeFrequency[0].Path)
	assert.Equal(t, 2, reports[0].ChangeFrequency[0].Value)

	require.Len(t, reports[1].CommitAge, 1)
	assert.Equal(t, 90, reports[1].CommitAge[0].Value)
	assert.True(t, reports[1].CommitAge[0].Resolved)
}

func TestExecuteAnalysis_SingleView(t *testing.T) {
	fx := gitstore.NewFixture(t)
	fx.Touch("x.txt", daysAgo(5))

	cfg := jsonConfig(t, fx.Dir)
	cfg.View = schema.AgeView
	require.NoError(t, ExecuteAnalysis(context.Background(), cfg, nil))

	reports := readReports(t, cfg.OutputFile)
	require.Len(t, reports, 1)
	assert.Len(t, reports[0].CommitAge, 1)
	assert.Empty(t, reports[0].ChangeFrequency)
}

func TestExecuteAnalysis_RecordsRun(t *testing.T) {
	fx := gitstore.NewFixture(t)
	fx.Commit(daysAgo(2), map[string]string{"a.go": "a", "b.go": "b"})
	cfg := jsonConfig(t, fx.Dir)

	store := new(iocache.MockRunStore)
	store.On("BeginRun", mock.Anything, mock.AnythingOfType("*schema.AnalysisResult"), mock.Anything).Return(int64(7), "uuid-7", nil).Once()
	store.On("RecordFileMetrics", int64(7), "a.go", schema.FileMetrics{CommitAgeDays: 2, ChangeFrequency: 1, Resolved: true}).Return(nil).Once()
	store.On("RecordFileMetrics", int64(7), "b.go", schema.FileMetrics{CommitAgeDays: 2, ChangeFrequency: 1, Resolved: true}).Return(errors.New("insert failed")).Once()
	store.On("EndRun", int64(7), mock.Anything, 2).Return(nil).Once()

	mgr := new(iocache.MockStoreManager)
	mgr.On("GetRunStore").Return(store)

	require.NoError(t, ExecuteAnalysis(context.Background(), cfg, mgr))
	store.AssertExpectations(t)
	mgr.AssertExpectations(t)
}

func TestExecuteAnalysis_TrackingFailureDoesNotFailAnalysis(t *testing.T) {
	fx := gitstore.NewFixture(t)
	fx.Touch("a.go", daysAgo(2))
	cfg := jsonConfig(t, fx.Dir)

	store := new(iocache.MockRunStore)
	store.On("BeginRun", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), "", errors.New("db down")).Once()

	mgr := new(iocache.MockStoreManager)
	mgr.On("GetRunStore").Return(store)

	require.NoError(t, ExecuteAnalysis(context.Background(), cfg, mgr))
	store.AssertNotCalled(t, "RecordFileMetrics", mock.Anything, mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "EndRun", mock.Anything, mock.Anything, mock.Anything)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := &contract.Config{
		RecentDays:     14,
		Extensions:     []string{".go"},
		Workers:        3,
		Excludes:       []string{"vendor/"},
		HistoryBackend: schema.GitCLIHistory,
		Now:            fixedNow,
	}
	opts := OptionsFromConfig(cfg)
	assert.Equal(t, 14, opts.RecentDays)
	assert.Equal(t, []string{".go"}, opts.Extensions)
	assert.Equal(t, 3, opts.Workers)
	assert.True(t, opts.Now.Equal(fixedNow))
	require.NotNil(t, opts.Exclude)
	assert.True(t, opts.Exclude("vendor/x.go"))
	assert.IsType(t, &contract.CLIHistoryOpener{}, opts.Opener)
	assert.IsType(t, &gitstore.Opener{}, NewHistoryOpener(schema.GoGitHistory))
}

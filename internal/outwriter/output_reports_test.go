package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/githeat/internal/contract"
	"github.com/huangsam/githeat/internal/parquet"
	"github.com/huangsam/githeat/schema"
	pq "github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refTime = time.Date(2025, time.November, 3, 10, 0, 0, 0, time.UTC)

func heat(rank int, path string, value int, h float64, resolved bool) schema.EnrichedFileHeat {
	return schema.EnrichedFileHeat{
		Rank:     rank,
		Heat:     h,
		Label:    schema.GetPlainLabel(h),
		FileHeat: schema.FileHeat{Path: path, Value: value, Resolved: resolved},
	}
}

func sampleReports() []*schema.RepositoryReport {
	return []*schema.RepositoryReport{
		{
			RepoPath:      "/work/alpha",
			ReferenceTime: refTime,
			RecentDays:    30,
			TotalFiles:    3,
			CommitAge: []schema.EnrichedFileHeat{
				heat(1, "old.txt", 400, 100, true),
				heat(2, "src/main.go", 3, 0.75, true),
			},
			ChangeFrequency: []schema.EnrichedFileHeat{
				heat(1, "src/main.go", 3, 100, true),
				heat(2, "scratch.txt", 0, 0, false),
			},
		},
		{
			RepoPath:      "/work/beta",
			ReferenceTime: refTime,
			RecentDays:    7,
			TotalFiles:    0,
			CommitAge:     []schema.EnrichedFileHeat{},
		},
	}
}

func textConfig() *contract.Config {
	return &contract.Config{
		Output:         schema.TextOut,
		Workers:        4,
		Width:          200,
		HistoryBackend: schema.GoGitHistory,
	}
}

func TestWriteReportTables(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeReportTables(&buf, sampleReports(), textConfig(), 1500*time.Millisecond))
	out := buf.String()

	assert.Contains(t, out, "🔎 Repo: alpha (3 files)")
	assert.Contains(t, out, "📅 Window: 2025-10-04T10:00:00Z → 2025-11-03T10:00:00Z")
	assert.Contains(t, out, "Commit age (days since last change, oldest first)")
	assert.Contains(t, out, "Change frequency (commits in the last 30 days, most frequent first)")
	assert.Contains(t, out, "old.txt")
	assert.Contains(t, out, "Critical")
	assert.Contains(t, out, "scratch.txt")

	assert.Contains(t, out, "🔎 Repo: beta (0 files)")
	assert.Contains(t, out, "No files found.")
	assert.Equal(t, 1, strings.Count(out, "Change frequency"), "beta has no frequency view")
	assert.True(t, strings.HasSuffix(out, "Analysis completed in 1.5s with 4 workers. History backend: gogit\n"))
}

func TestWriteReportsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeReportsCSV(&buf, sampleReports()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, []string{"repo_path", "view", "rank", "path", "value", "heat", "label", "resolved"}, records[0])
	assert.Equal(t, []string{"/work/alpha", "age", "1", "old.txt", "400", "100.0", "Critical", "true"}, records[1])
	assert.Equal(t, []string{"/work/alpha", "age", "2", "src/main.go", "3", "0.8", "Low", "true"}, records[2])
	assert.Equal(t, []string{"/work/alpha", "frequency", "2", "scratch.txt", "0", "0.0", "Low", "false"}, records[4])
}

func TestWriteReportsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeReportsJSON(&buf, sampleReports()))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "/work/alpha", decoded[0]["repo_path"])
	assert.Equal(t, "2025-11-03T10:00:00Z", decoded[0]["reference_time"])

	freq := decoded[0]["change_frequency"].([]any)
	second := freq[1].(map[string]any)
	assert.Equal(t, "scratch.txt", second["path"])
	assert.Equal(t, false, second["resolved"])
	assert.NotContains(t, decoded[1], "change_frequency")

	buf.Reset()
	require.NoError(t, writeReportsJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriteReports_Formats(t *testing.T) {
	dir := t.TempDir()

	t.Run("json file", func(t *testing.T) {
		cfg := textConfig()
		cfg.Output = schema.JSONOut
		cfg.OutputFile = filepath.Join(dir, "out.json")
		require.NoError(t, NewOutWriter().WriteReports(sampleReports(), cfg, time.Second))

		data, err := os.ReadFile(cfg.OutputFile)
		require.NoError(t, err)
		var reports []schema.RepositoryReport
		require.NoError(t, json.Unmarshal(data, &reports))
		assert.Len(t, reports, 2)
	})

	t.Run("csv file", func(t *testing.T) {
		cfg := textConfig()
		cfg.Output = schema.CSVOut
		cfg.OutputFile = filepath.Join(dir, "out.csv")
		require.NoError(t, NewOutWriter().WriteReports(sampleReports(), cfg, time.Second))

		data, err := os.ReadFile(cfg.OutputFile)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "repo_path,view,rank"))
	})

	t.Run("parquet file", func(t *testing.T) {
		cfg := textConfig()
		cfg.Output = schema.ParquetOut
		cfg.OutputFile = filepath.Join(dir, "out.parquet")
		require.NoError(t, NewOutWriter().WriteReports(sampleReports(), cfg, time.Second))

		file, err := os.Open(cfg.OutputFile)
		require.NoError(t, err)
		defer func() { _ = file.Close() }()
		reader := pq.NewGenericReader[parquet.FileHeatRow](file)
		defer func() { _ = reader.Close() }()
		assert.Equal(t, int64(4), reader.NumRows())

		rows := make([]parquet.FileHeatRow, 4)
		n, err := reader.Read(rows)
		if err != nil && err != io.EOF {
			require.NoError(t, err)
		}
		require.Equal(t, 4, n)
		assert.Equal(t, "old.txt", rows[0].Path)
	})

	t.Run("text file", func(t *testing.T) {
		cfg := textConfig()
		cfg.OutputFile = filepath.Join(dir, "out.txt")
		require.NoError(t, NewOutWriter().WriteReports(sampleReports(), cfg, time.Second))

		data, err := os.ReadFile(cfg.OutputFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), "🔎 Repo: alpha")
	})

	t.Run("unwritable target", func(t *testing.T) {
		cfg := textConfig()
		cfg.Output = schema.JSONOut
		cfg.OutputFile = filepath.Join(dir, "missing", "out.json")
		assert.Error(t, NewOutWriter().WriteReports(sampleReports(), cfg, time.Second))
	})
}

func TestWriteReportHeader_RootPath(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeReportHeader(&buf, &schema.RepositoryReport{RepoPath: string(filepath.Separator), ReferenceTime: refTime}))
	assert.Contains(t, buf.String(), "Repo: current")
}

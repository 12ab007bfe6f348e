package core

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/githeat/internal/contract"
	"github.com/huangsam/githeat/internal/gitstore"
	"github.com/huangsam/githeat/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func daysAgo(n int) time.Time {
	return fixedNow.Add(-time.Duration(n) * contract.Day)
}

// pinned returns options at fixedNow that skip the .git directory.
func pinned(days int) Options {
	return Options{
		RecentDays: days,
		Now:        fixedNow,
		Exclude:    contract.NewExcludeMatcher(contract.DefaultExcludes),
	}
}

// sampleRepo builds a repository with a spread of commit ages.
func sampleRepo(t *testing.T) *gitstore.Fixture {
	t.Helper()
	fx := gitstore.NewFixture(t)
	fx.Touch("old.txt", daysAgo(400))
	fx.Touch("docs/guide.md", daysAgo(120))
	fx.Touch("src/main.go", daysAgo(60))
	fx.Touch("src/main.go", daysAgo(20))
	fx.Touch("src/main.go", daysAgo(3))
	fx.Touch("src/util.go", daysAgo(10))
	fx.Write("untracked.txt", "never committed")
	return fx
}

func TestAnalyze_MissingRepoPath(t *testing.T) {
	_, err := Analyze(context.Background(), "", DefaultOptions())
	assert.ErrorIs(t, err, contract.ErrMissingRepoPath)
}

func TestAnalyze_SampleRepository(t *testing.T) {
	fx := sampleRepo(t)

	result, err := Analyze(context.Background(), fx.Dir, pinned(30))
	require.NoError(t, err)

	assert.Equal(t, map[string]int{
		"old.txt":       400,
		"docs/guide.md": 120,
		"src/main.go":   3,
		"src/util.go":   10,
		"untracked.txt": 0,
	}, result.CommitAge)
	assert.Equal(t, map[string]int{
		"old.txt":       0,
		"docs/guide.md": 0,
		"src/main.go":   2,
		"src/util.go":   1,
		"untracked.txt": 0,
	}, result.ChangeFrequency)

	assert.Equal(t, schema.LookupOK, result.Resolution["src/main.go"])
	assert.Equal(t, schema.LookupNotFound, result.Resolution["untracked.txt"])
	assert.True(t, result.Now.Equal(fixedNow))
	assert.Equal(t, 30, result.RecentDays)
}

// P1: every value is non-negative. P2: both maps share one key set.
func TestAnalyze_NonNegativeAndKeyParity(t *testing.T) {
	fx := sampleRepo(t)
	fx.Touch("future.txt", fixedNow.Add(48*time.Hour))

	for _, days := range []int{-5, 0, 1, 30, 365} {
		result, err := Analyze(context.Background(), fx.Dir, pinned(days))
		require.NoError(t, err)

		require.Equal(t, len(result.CommitAge), len(result.ChangeFrequency))
		require.Equal(t, len(result.CommitAge), len(result.Resolution))
		for path, age := range result.CommitAge {
			freq, ok := result.ChangeFrequency[path]
			require.True(t, ok, "missing frequency for %s", path)
			assert.GreaterOrEqual(t, age, 0)
			assert.GreaterOrEqual(t, freq, 0)
		}
		assert.Equal(t, 0, result.CommitAge["future.txt"], "future commits clamp to zero age")
	}
}

// P3: with a filter, every key ends with one of the suffixes.
func TestAnalyze_ExtensionFilter(t *testing.T) {
	fx := sampleRepo(t)

	result, err := Analyze(context.Background(), fx.Dir, Options{
		RecentDays: 30,
		Now:        fixedNow,
		Extensions: []string{".go"},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"src/main.go", "src/util.go"}, result.Paths())

	result, err = Analyze(context.Background(), fx.Dir, Options{
		RecentDays: 30,
		Now:        fixedNow,
		Extensions: []string{".md", ".txt"},
		Exclude:    contract.NewExcludeMatcher(contract.DefaultExcludes),
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"docs/guide.md", "old.txt", "untracked.txt"}, result.Paths())
}

// P4: growing the window never lowers a frequency.
func TestAnalyze_MonotonicWindow(t *testing.T) {
	fx := sampleRepo(t)
	ctx := context.Background()

	windows := []int{0, 5, 15, 30, 90, 500}
	var previous map[string]int
	for _, days := range windows {
		result, err := Analyze(ctx, fx.Dir, pinned(days))
		require.NoError(t, err)
		for path, freq := range previous {
			assert.GreaterOrEqual(t, result.ChangeFrequency[path], freq, "%s shrank when window grew to %d days", path, days)
		}
		previous = result.ChangeFrequency
	}
	assert.Equal(t, 3, previous["src/main.go"])
}

// P5: files with no resolvable history report (0, 0).
func TestAnalyze_ZeroHistoryFallback(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, "plain.txt", "nested/notes.md")

	result, err := Analyze(context.Background(), dir, pinned(30))
	require.NoError(t, err)

	require.Equal(t, 2, result.Len())
	for _, path := range result.Paths() {
		assert.Zero(t, result.CommitAge[path])
		assert.Zero(t, result.ChangeFrequency[path])
		assert.Equal(t, schema.LookupNotFound, result.Resolution[path])
		assert.False(t, result.Resolved(path))
	}
}

// Scenario A: a file committed today is age 0 with one recent change.
func TestAnalyze_CommittedToday(t *testing.T) {
	fx := gitstore.NewFixture(t)
	fx.Touch("today.txt", fixedNow.Add(-2*time.Hour))

	result, err := Analyze(context.Background(), fx.Dir, pinned(30))
	require.NoError(t, err)
	assert.Equal(t, 0, result.CommitAge["today.txt"])
	assert.Equal(t, 1, result.ChangeFrequency["today.txt"])
	assert.True(t, result.Resolved("today.txt"), "resolution separates today from no history")
}

// Scenario A through DefaultOptions: repository metadata is not reported.
func TestAnalyze_DefaultOptionsSkipGitDirectory(t *testing.T) {
	fx := gitstore.NewFixture(t)
	fx.Touch("file.txt", fixedNow.Add(-time.Hour))

	opts := DefaultOptions()
	opts.Now = fixedNow
	result, err := Analyze(context.Background(), fx.Dir, opts)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"file.txt": 0}, result.CommitAge)
	assert.Equal(t, map[string]int{"file.txt": 1}, result.ChangeFrequency)
}

func TestAnalyze_PastReferenceTimeIgnoresLaterCommits(t *testing.T) {
	fx := gitstore.NewFixture(t)
	fx.Touch("a.txt", daysAgo(100))
	fx.Touch("a.txt", daysAgo(10))

	for _, backend := range []schema.HistoryBackend{schema.GoGitHistory, schema.GitCLIHistory} {
		t.Run(string(backend), func(t *testing.T) {
			if backend == schema.GitCLIHistory {
				if _, err := exec.LookPath("git"); err != nil {
					t.Skipf("git binary not found in PATH: %v", err)
				}
			}
			opts := pinned(30)
			opts.Now = daysAgo(40)
			opts.Opener = NewHistoryOpener(backend)
			result, err := Analyze(context.Background(), fx.Dir, opts)
			require.NoError(t, err)
			assert.Equal(t, 60, result.CommitAge["a.txt"], "age is measured from the newest commit before the reference time")
			assert.Equal(t, 0, result.ChangeFrequency["a.txt"])
			assert.True(t, result.Resolved("a.txt"))
		})
	}
}

// Scenario B: a zero-day window is the closed interval [now, now].
func TestAnalyze_ZeroDayWindow(t *testing.T) {
	fx := gitstore.NewFixture(t)
	fx.Touch("exact.txt", fixedNow)
	fx.Touch("earlier.txt", fixedNow.Add(-time.Second))

	result, err := Analyze(context.Background(), fx.Dir, pinned(0))
	require.NoError(t, err)
	assert.Equal(t, 1, result.ChangeFrequency["exact.txt"])
	assert.Equal(t, 0, result.ChangeFrequency["earlier.txt"])
}

// Scenario C: a .txt filter keeps only the matching file.
func TestAnalyze_TxtFilter(t *testing.T) {
	fx := gitstore.NewFixture(t)
	fx.Commit(daysAgo(1), map[string]string{"a.txt": "a", "b.md": "b"})

	result, err := Analyze(context.Background(), fx.Dir, Options{RecentDays: 30, Now: fixedNow, Extensions: []string{".txt"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a.txt": 1}, result.CommitAge)
	assert.Equal(t, map[string]int{"a.txt": 1}, result.ChangeFrequency)
}

// Scenario D: a path that does not exist yields two empty maps and no error.
func TestAnalyze_NonexistentPath(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nowhere")

	result, err := Analyze(context.Background(), missing, pinned(30))
	require.NoError(t, err)
	assert.Empty(t, result.CommitAge)
	assert.Empty(t, result.ChangeFrequency)
	assert.NotNil(t, result.CommitAge)
	assert.NotNil(t, result.ChangeFrequency)
}

// Scenario E: a file last committed 45 days ago is old and quiet.
func TestAnalyze_OldFile(t *testing.T) {
	fx := gitstore.NewFixture(t)
	fx.Touch("stale.txt", daysAgo(45))

	result, err := Analyze(context.Background(), fx.Dir, pinned(30))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.CommitAge["stale.txt"], 45)
	assert.Equal(t, 0, result.ChangeFrequency["stale.txt"])
}

func TestAnalyze_ParallelMatchesSequential(t *testing.T) {
	fx := sampleRepo(t)
	for i := range 12 {
		fx.Touch(filepath.ToSlash(filepath.Join("bulk", string(rune('a'+i))+".txt")), daysAgo(i*7))
	}
	ctx := context.Background()

	sequential, err := Analyze(ctx, fx.Dir, pinned(30))
	require.NoError(t, err)

	opts := pinned(30)
	opts.Workers = 4
	parallel, err := Analyze(ctx, fx.Dir, opts)
	require.NoError(t, err)

	assert.Equal(t, sequential.CommitAge, parallel.CommitAge)
	assert.Equal(t, sequential.ChangeFrequency, parallel.ChangeFrequency)
	assert.Equal(t, sequential.Resolution, parallel.Resolution)
}

func TestAnalyze_GitDirectoryIncludedWithoutExclude(t *testing.T) {
	fx := gitstore.NewFixture(t)
	fx.Touch("a.txt", daysAgo(2))

	result, err := Analyze(context.Background(), fx.Dir, Options{RecentDays: 30, Now: fixedNow})
	require.NoError(t, err)

	gitFiles := 0
	for _, path := range result.Paths() {
		if strings.HasPrefix(path, ".git/") {
			gitFiles++
			assert.Zero(t, result.ChangeFrequency[path])
		}
	}
	assert.Positive(t, gitFiles, "the walk itself does not filter repository metadata")
}

func TestAnalyze_NestedRepository(t *testing.T) {
	outer := gitstore.NewFixture(t)
	outer.Touch("top.txt", daysAgo(50))

	inner := gitstore.NewFixture(t)
	inner.Touch("lib.go", daysAgo(5))
	nestedDir := filepath.Join(outer.Dir, "third_party", "lib")
	require.NoError(t, os.MkdirAll(filepath.Dir(nestedDir), 0o755))
	require.NoError(t, os.Rename(inner.Dir, nestedDir))

	result, err := Analyze(context.Background(), outer.Dir, pinned(30))
	require.NoError(t, err)
	assert.Equal(t, 50, result.CommitAge["top.txt"])
	assert.Equal(t, 5, result.CommitAge["third_party/lib/lib.go"], "files resolve against their innermost repository")
	assert.Equal(t, 1, result.ChangeFrequency["third_party/lib/lib.go"])
}

func TestAnalyze_StoreErrorsDegradeToZero(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, "a.go", "b.go")

	opener := new(contract.MockHistoryOpener)
	opener.On("FindEnclosingHistoryStore", mock.Anything, mock.Anything).Return(nil, errors.New("disk on fire"))

	opts := pinned(30)
	opts.Opener = opener
	result, err := Analyze(context.Background(), dir, opts)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"a.go": 0, "b.go": 0}, result.CommitAge)
	assert.Equal(t, map[string]int{"a.go": 0, "b.go": 0}, result.ChangeFrequency)
	assert.Equal(t, schema.LookupStoreError, result.Resolution["a.go"])
	opener.AssertNumberOfCalls(t, "FindEnclosingHistoryStore", 4)
}

func TestAnalyze_CanceledContext(t *testing.T) {
	fx := sampleRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Analyze(ctx, fx.Dir, pinned(30))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyze_CLIBackendAgrees(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skipf("git binary not found in PATH: %v", err)
	}
	fx := sampleRepo(t)
	ctx := context.Background()

	viaGoGit, err := Analyze(ctx, fx.Dir, pinned(30))
	require.NoError(t, err)

	opts := pinned(30)
	opts.Opener = NewHistoryOpener(schema.GitCLIHistory)
	viaCLI, err := Analyze(ctx, fx.Dir, opts)
	require.NoError(t, err)

	assert.Equal(t, viaGoGit.CommitAge, viaCLI.CommitAge)
	assert.Equal(t, viaGoGit.ChangeFrequency, viaCLI.ChangeFrequency)
}

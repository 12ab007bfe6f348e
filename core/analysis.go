package core

import (
	"context"
	"path/filepath"
	"time"

	"github.com/huangsam/githeat/internal/contract"
	"github.com/huangsam/githeat/internal/gitstore"
	"github.com/huangsam/githeat/schema"
	"golang.org/x/sync/errgroup"
)

// Options controls a single Analyze call. The zero value analyzes every file,
// .git internals included, with a zero-day window at the current time,
// sequentially, through go-git.
type Options struct {
	// RecentDays is the trailing window in days. Negative windows match nothing.
	RecentDays int
	// Extensions lists file name suffixes to keep. Empty keeps every file.
	Extensions []string
	// Now is the reference time. Zero means time.Now(), captured once.
	Now time.Time
	// Opener locates repositories. Nil means the go-git backed opener.
	Opener contract.HistoryOpener
	// Workers bounds concurrent lookups. Values <= 1 run sequentially.
	Workers int
	// Exclude is an optional gate on slash-separated relative paths.
	Exclude func(rel string) bool
}

// DefaultOptions returns options with the default window that skip the
// repository's own .git directory. Callers building Options by hand should
// set Exclude from contract.DefaultExcludes to get the same behavior.
func DefaultOptions() Options {
	return Options{
		RecentDays: contract.DefaultRecentDays,
		Exclude:    contract.NewExcludeMatcher(contract.DefaultExcludes),
	}
}

// NewHistoryOpener returns the opener for the configured history backend.
func NewHistoryOpener(backend schema.HistoryBackend) contract.HistoryOpener {
	if backend == schema.GitCLIHistory {
		return contract.NewCLIHistoryOpener()
	}
	return gitstore.NewOpener()
}

// fileTask is one walked file that passed the filters.
type fileTask struct {
	abs string
	rel string
}

// fileOutcome holds the resolved metrics of one file.
type fileOutcome struct {
	age       int
	frequency int
	status    schema.LookupStatus
}

// Analyze computes commit age and change frequency for every file under repoPath.
// Files whose history cannot be resolved are recorded with zero for both metrics
// and a non-OK resolution. The only error besides context cancellation is a
// missing repository path.
func Analyze(ctx context.Context, repoPath string, opts Options) (*schema.AnalysisResult, error) {
	if repoPath == "" {
		return nil, contract.ErrMissingRepoPath
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	opener := opts.Opener
	if opener == nil {
		opener = gitstore.NewOpener()
	}

	root, ok := resolveRoot(repoPath)
	if !ok {
		root = repoPath
	}
	result := schema.NewAnalysisResult(root, now, opts.RecentDays)

	files := collectFiles(root, opts)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	since := contract.WindowStart(now, opts.RecentDays)
	outcomes := resolveFiles(ctx, NewResolver(opener), files, since, now, opts.Workers)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for i, f := range files {
		o := outcomes[i]
		result.Record(f.rel, o.age, o.frequency, o.status)
	}
	return result, nil
}

// collectFiles walks root and keeps the files accepted by the extension
// filter and the exclusion gate.
func collectFiles(root string, opts Options) []fileTask {
	var files []fileTask
	for path := range WalkTree(root) {
		if !contract.MatchesExtension(path, opts.Extensions) {
			continue
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)
		if opts.Exclude != nil && opts.Exclude(rel) {
			continue
		}
		files = append(files, fileTask{abs: path, rel: rel})
	}
	return files
}

// resolveFiles resolves every file, concurrently when workers > 1. Outcomes are
// written by index so the result does not depend on scheduling.
func resolveFiles(ctx context.Context, resolver *Resolver, files []fileTask, since, now time.Time, workers int) []fileOutcome {
	outcomes := make([]fileOutcome, len(files))
	if workers <= 1 {
		for i, f := range files {
			if ctx.Err() != nil {
				break
			}
			outcomes[i] = resolveFile(ctx, resolver, f, since, now)
		}
		return outcomes
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i, f := range files {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			outcomes[i] = resolveFile(ctx, resolver, f, since, now)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

// resolveFile runs both lookups for one file and applies the zero fallback.
func resolveFile(ctx context.Context, resolver *Resolver, f fileTask, since, now time.Time) fileOutcome {
	last := resolver.LastChange(ctx, f.abs, now)
	count := resolver.ChangeCount(ctx, f.abs, since, now)

	outcome := fileOutcome{
		age:    CommitAgeDays(last, now),
		status: schema.LookupOK,
	}
	if count.OK() {
		outcome.frequency = count.Count
	}

	if !last.OK() {
		contract.LogLookupFailure(f.rel, last.Status, last.Err)
		outcome.status = last.Status
	}
	if !count.OK() {
		contract.LogLookupFailure(f.rel, count.Status, count.Err)
		if outcome.status == schema.LookupOK || count.Status == schema.LookupStoreError {
			outcome.status = count.Status
		}
	}
	return outcome
}

package contract

import (
	"context"
	"time"
)

// CLIHistoryOpener opens repositories through the local git binary.
type CLIHistoryOpener struct {
	client *LocalGitClient
}

var _ HistoryOpener = &CLIHistoryOpener{} // Compile-time check

// NewCLIHistoryOpener creates an opener backed by LocalGitClient.
func NewCLIHistoryOpener() *CLIHistoryOpener {
	return &CLIHistoryOpener{client: NewLocalGitClient()}
}

// FindEnclosingHistoryStore implements the HistoryOpener interface.
func (o *CLIHistoryOpener) FindEnclosingHistoryStore(ctx context.Context, path string) (HistoryStore, error) {
	root, err := o.client.GetRepoRoot(ctx, path)
	if err != nil {
		return nil, err
	}
	return &cliHistoryStore{
		client:  o.client,
		root:    root,
		hasHead: o.client.HasCommits(ctx, root),
	}, nil
}

// cliHistoryStore answers lookups by shelling out per query. It holds no
// open resources, so Close is a no-op.
type cliHistoryStore struct {
	client  *LocalGitClient
	root    string
	hasHead bool
}

var _ HistoryStore = &cliHistoryStore{} // Compile-time check

func (s *cliHistoryStore) Root() string { return s.root }

func (s *cliHistoryStore) LastChange(ctx context.Context, rel string, until time.Time) (time.Time, error) {
	if !s.hasHead {
		return time.Time{}, ErrNoHistory
	}
	times, err := s.client.GetCommitTimes(ctx, s.root, rel, time.Time{}, until)
	if err != nil {
		return time.Time{}, err
	}
	var latest time.Time
	for _, t := range times {
		if t.After(latest) && !t.After(until) {
			latest = t
		}
	}
	if latest.IsZero() {
		return time.Time{}, ErrNoHistory
	}
	return latest, nil
}

func (s *cliHistoryStore) CountChanges(ctx context.Context, rel string, since, until time.Time) (int, error) {
	if !s.hasHead || since.After(until) {
		return 0, nil
	}
	times, err := s.client.GetCommitTimes(ctx, s.root, rel, since, until)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, t := range times {
		if !t.Before(since) && !t.After(until) {
			count++
		}
	}
	return count, nil
}

func (s *cliHistoryStore) Close() error { return nil }

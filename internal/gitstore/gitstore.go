// Package gitstore reads repository history in-process through go-git.
package gitstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/huangsam/githeat/internal/contract"
)

// Opener finds the repository enclosing a path by walking up to the nearest .git entry.
type Opener struct{}

var _ contract.HistoryOpener = &Opener{} // Compile-time check

// NewOpener creates a go-git backed opener.
func NewOpener() *Opener {
	return &Opener{}
}

// FindEnclosingHistoryStore implements the HistoryOpener interface.
func (o *Opener) FindEnclosingHistoryStore(ctx context.Context, path string) (contract.HistoryStore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, contract.ErrStoreNotFound
	}
	dir := path
	if !info.IsDir() {
		dir = filepath.Dir(path)
	}

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, contract.ErrStoreNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", dir, err)
	}

	store := &Store{repo: repo}
	wt, err := repo.Worktree()
	if err != nil {
		_ = store.Close()
		if errors.Is(err, git.ErrIsBareRepository) {
			return nil, contract.ErrStoreNotFound
		}
		return nil, fmt.Errorf("failed to read worktree at %s: %w", dir, err)
	}
	store.root = wt.Filesystem.Root()

	head, err := repo.Head()
	switch {
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		// Unborn branch: the repository exists but has no commits yet
	case err != nil:
		_ = store.Close()
		return nil, fmt.Errorf("failed to resolve HEAD at %s: %w", store.root, err)
	default:
		store.head = head.Hash()
	}
	return store, nil
}

// Store answers history queries against one opened repository.
type Store struct {
	repo *git.Repository
	root string
	head plumbing.Hash
}

var _ contract.HistoryStore = &Store{} // Compile-time check

// Root implements the HistoryStore interface.
func (s *Store) Root() string { return s.root }

// LastChange implements the HistoryStore interface.
func (s *Store) LastChange(ctx context.Context, rel string, until time.Time) (time.Time, error) {
	if s.head.IsZero() {
		return time.Time{}, contract.ErrNoHistory
	}
	var latest time.Time
	err := s.walkChanges(ctx, rel, func(c *object.Commit) (bool, error) {
		return !c.Committer.When.After(until), nil
	}, func(c *object.Commit) error {
		latest = c.Committer.When
		return storer.ErrStop
	})
	if err != nil {
		return time.Time{}, err
	}
	if latest.IsZero() {
		return time.Time{}, contract.ErrNoHistory
	}
	return latest, nil
}

// CountChanges implements the HistoryStore interface.
func (s *Store) CountChanges(ctx context.Context, rel string, since, until time.Time) (int, error) {
	if s.head.IsZero() || since.After(until) {
		return 0, nil
	}
	count := 0
	err := s.walkChanges(ctx, rel, func(c *object.Commit) (bool, error) {
		when := c.Committer.When
		if when.Before(since) {
			// Like git log --since, stop at the first commit older than the window
			return false, storer.ErrStop
		}
		return !when.After(until), nil
	}, func(*object.Commit) error {
		count++
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// walkChanges visits the commits reachable from HEAD, newest committer time
// first, and calls visit for each one accepted by keep that changed rel.
// Either callback may return storer.ErrStop to end the walk early.
func (s *Store) walkChanges(
	ctx context.Context,
	rel string,
	keep func(*object.Commit) (bool, error),
	visit func(*object.Commit) error,
) error {
	iter, err := s.repo.Log(&git.LogOptions{From: s.head, Order: git.LogOrderCommitterTime})
	if err != nil {
		return fmt.Errorf("failed to read log for %s: %w", rel, err)
	}
	defer iter.Close()

	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		ok, err := keep(c)
		if err != nil || !ok {
			return err
		}
		changed, err := changesPath(c, rel)
		if err != nil || !changed {
			return err
		}
		return visit(c)
	})
	if err != nil {
		return fmt.Errorf("failed to walk log for %s: %w", rel, err)
	}
	return nil
}

// pathState is the tree entry of one path in one commit.
type pathState struct {
	present bool
	hash    plumbing.Hash
	mode    filemode.FileMode
}

// changesPath reports whether c changed rel. A root commit changes every path
// it contains. A merge changes rel only when its version matches none of its
// parents, so a merge that takes one side unchanged is never counted.
func changesPath(c *object.Commit, rel string) (bool, error) {
	state, err := stateAt(c, rel)
	if err != nil {
		return false, err
	}
	if c.NumParents() == 0 {
		return state.present, nil
	}
	changed := true
	err = c.Parents().ForEach(func(p *object.Commit) error {
		ps, err := stateAt(p, rel)
		if err != nil {
			return err
		}
		if ps == state {
			changed = false
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return changed, nil
}

// stateAt looks rel up in the tree of c.
func stateAt(c *object.Commit, rel string) (pathState, error) {
	tree, err := c.Tree()
	if err != nil {
		return pathState{}, fmt.Errorf("failed to read tree of %s: %w", c.Hash, err)
	}
	entry, err := tree.FindEntry(rel)
	switch {
	case errors.Is(err, object.ErrEntryNotFound),
		errors.Is(err, object.ErrDirectoryNotFound),
		errors.Is(err, object.ErrFileNotFound):
		return pathState{}, nil
	case err != nil:
		return pathState{}, fmt.Errorf("failed to find %s in %s: %w", rel, c.Hash, err)
	}
	if entry.Mode == filemode.Dir || entry.Mode == filemode.Submodule {
		return pathState{}, nil
	}
	return pathState{present: true, hash: entry.Hash, mode: entry.Mode}, nil
}

// Close releases the repository's storage handles.
func (s *Store) Close() error {
	if closer, ok := s.repo.Storer.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

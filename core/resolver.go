package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/githeat/internal/contract"
	"github.com/huangsam/githeat/schema"
)

// Resolver answers the two per-file history questions. Every lookup opens
// the enclosing repository itself and closes it before returning, so a
// Resolver holds no open handles and is safe for concurrent use.
type Resolver struct {
	opener contract.HistoryOpener
}

// NewResolver creates a resolver that locates repositories through opener.
func NewResolver(opener contract.HistoryOpener) *Resolver {
	return &Resolver{opener: opener}
}

// LastChange returns the committer time of the newest commit touching absPath
// that is not after until.
func (r *Resolver) LastChange(ctx context.Context, absPath string, until time.Time) schema.TimeLookup {
	store, rel, err := r.open(ctx, absPath)
	if err != nil {
		return schema.TimeLookup{Status: lookupStatus(err), Err: err}
	}
	defer closeStore(store)

	t, err := store.LastChange(ctx, rel, until)
	if err != nil {
		return schema.TimeLookup{Status: lookupStatus(err), Err: err}
	}
	return schema.TimeLookup{Status: schema.LookupOK, Time: t}
}

// ChangeCount returns how many commits touching absPath fall within [since, until].
func (r *Resolver) ChangeCount(ctx context.Context, absPath string, since, until time.Time) schema.CountLookup {
	store, rel, err := r.open(ctx, absPath)
	if err != nil {
		return schema.CountLookup{Status: lookupStatus(err), Err: err}
	}
	defer closeStore(store)

	n, err := store.CountChanges(ctx, rel, since, until)
	if err != nil {
		return schema.CountLookup{Status: lookupStatus(err), Err: err}
	}
	return schema.CountLookup{Status: schema.LookupOK, Count: n}
}

// open finds the repository enclosing absPath and the path relative to its root.
func (r *Resolver) open(ctx context.Context, absPath string) (contract.HistoryStore, string, error) {
	store, err := r.opener.FindEnclosingHistoryStore(ctx, absPath)
	if err != nil {
		return nil, "", err
	}
	rel, err := relativeTo(store.Root(), absPath)
	if err != nil {
		closeStore(store)
		return nil, "", err
	}
	return store, rel, nil
}

func closeStore(store contract.HistoryStore) {
	if err := store.Close(); err != nil {
		contract.Logger.WithError(err).Debug("failed to close history store")
	}
}

// lookupStatus classifies a lookup error. Missing repositories and missing
// history are expected outcomes; anything else is a store failure.
func lookupStatus(err error) schema.LookupStatus {
	switch {
	case err == nil:
		return schema.LookupOK
	case errors.Is(err, contract.ErrStoreNotFound), errors.Is(err, contract.ErrNoHistory):
		return schema.LookupNotFound
	default:
		return schema.LookupStoreError
	}
}

// relativeTo expresses path relative to root with forward slashes. Symlinks
// are resolved on root and on the parent of path, but not on the final
// element, so a symlinked file keeps its own name.
func relativeTo(root, path string) (string, error) {
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	dir := filepath.Dir(path)
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	}
	rel, err := filepath.Rel(root, filepath.Join(dir, filepath.Base(path)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", contract.ErrStoreNotFound, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: %s lies outside %s", contract.ErrStoreNotFound, path, root)
	}
	return filepath.ToSlash(rel), nil
}

package gitstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// Fixture builds repositories with pinned commit times for tests.
type Fixture struct {
	tb   testing.TB
	Dir  string
	repo *git.Repository
}

// NewFixture initializes an empty repository in a fresh temp dir.
func NewFixture(tb testing.TB) *Fixture {
	tb.Helper()
	dir := tb.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(tb, err)
	return &Fixture{tb: tb, Dir: dir, repo: repo}
}

// Write creates or overwrites a working tree file without committing it.
func (f *Fixture) Write(rel, content string) string {
	f.tb.Helper()
	full := filepath.Join(f.Dir, filepath.FromSlash(rel))
	require.NoError(f.tb, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(f.tb, os.WriteFile(full, []byte(content), 0o644))
	return full
}

// Commit writes each file and records a single commit at when.
// Files map slash-separated relative paths to their new content.
func (f *Fixture) Commit(when time.Time, files map[string]string) {
	f.tb.Helper()
	f.commit(when, files, nil)
}

func (f *Fixture) commit(when time.Time, files map[string]string, parents []plumbing.Hash) {
	f.tb.Helper()
	wt, err := f.repo.Worktree()
	require.NoError(f.tb, err)
	for rel, content := range files {
		f.Write(rel, content)
		_, err := wt.Add(rel)
		require.NoError(f.tb, err)
	}
	sig := &object.Signature{Name: "Tester", Email: "tester@example.com", When: when}
	_, err = wt.Commit("update at "+when.Format(time.RFC3339), &git.CommitOptions{
		Author:            sig,
		Committer:         sig,
		Parents:           parents,
		AllowEmptyCommits: true,
	})
	require.NoError(f.tb, err)
}

// Branch creates a branch at HEAD and checks it out. It returns the name of
// the branch that was checked out before.
func (f *Fixture) Branch(name string) string {
	f.tb.Helper()
	head, err := f.repo.Head()
	require.NoError(f.tb, err)
	wt, err := f.repo.Worktree()
	require.NoError(f.tb, err)
	require.NoError(f.tb, wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
		Create: true,
	}))
	return head.Name().Short()
}

// Switch checks out an existing branch.
func (f *Fixture) Switch(name string) {
	f.tb.Helper()
	wt, err := f.repo.Worktree()
	require.NoError(f.tb, err)
	require.NoError(f.tb, wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
	}))
}

// Merge records a merge commit of branch into HEAD at when, like
// git merge --no-ff. Files the branch changed since the merge base take the
// branch's content; everything else keeps HEAD's. Conflicts and deletions
// are not handled.
func (f *Fixture) Merge(branch string, when time.Time) {
	f.tb.Helper()
	head, err := f.repo.Head()
	require.NoError(f.tb, err)
	ours, err := f.repo.CommitObject(head.Hash())
	require.NoError(f.tb, err)
	ref, err := f.repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	require.NoError(f.tb, err)
	theirs, err := f.repo.CommitObject(ref.Hash())
	require.NoError(f.tb, err)

	bases, err := ours.MergeBase(theirs)
	require.NoError(f.tb, err)
	require.NotEmpty(f.tb, bases, "branches share no history")
	baseTree, err := bases[0].Tree()
	require.NoError(f.tb, err)
	theirTree, err := theirs.Tree()
	require.NoError(f.tb, err)

	files := map[string]string{}
	err = theirTree.Files().ForEach(func(file *object.File) error {
		if entry, err := baseTree.FindEntry(file.Name); err == nil && entry.Hash == file.Hash {
			return nil
		}
		content, err := file.Contents()
		if err != nil {
			return err
		}
		files[file.Name] = content
		return nil
	})
	require.NoError(f.tb, err)
	f.commit(when, files, []plumbing.Hash{ours.Hash, theirs.Hash})
}

// Touch commits a new version of one file at when.
func (f *Fixture) Touch(rel string, when time.Time) {
	f.tb.Helper()
	f.Commit(when, map[string]string{rel: rel + "@" + when.Format(time.RFC3339Nano)})
}

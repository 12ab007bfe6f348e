package contract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// LocalGitClient runs the local 'git' binary installed on the machine.
type LocalGitClient struct{}

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes a git command and returns its stdout output.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git command failed in %q: %s", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// GetRepoRoot returns the absolute path to the root of the Git repository
// containing the given context path. It returns ErrStoreNotFound when the
// path is not inside a work tree.
func (c *LocalGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	info, err := os.Stat(contextPath)
	if err != nil {
		return "", ErrStoreNotFound
	}
	if !info.IsDir() {
		contextPath = filepath.Dir(contextPath)
	}
	out, err := c.Run(ctx, contextPath, "rev-parse", "--show-toplevel")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrStoreNotFound, err)
	}
	root := strings.TrimSpace(string(out))
	if root == "" {
		return "", ErrStoreNotFound
	}
	return filepath.FromSlash(root), nil
}

// HasCommits reports whether HEAD resolves to a commit.
func (c *LocalGitClient) HasCommits(ctx context.Context, repoPath string) bool {
	_, err := c.Run(ctx, repoPath, "rev-parse", "--verify", "--quiet", "HEAD")
	return err == nil
}

// GetCommitTimes returns the committer times of commits touching path.
// Zero bounds are left open. The bounds are widened by a second for git's
// second-granular filter; callers apply exact bounds themselves.
func (c *LocalGitClient) GetCommitTimes(ctx context.Context, repoPath, path string, since, until time.Time) ([]time.Time, error) {
	args := []string{
		"log",
		"--pretty=format:%cI",
	}
	if !since.IsZero() {
		args = append(args, "--since="+since.Add(-time.Second).Format(DateTimeFormat))
	}
	if !until.IsZero() {
		args = append(args, "--until="+until.Add(time.Second).Format(DateTimeFormat))
	}
	args = append(args, "--", path)

	out, err := c.Run(ctx, repoPath, args...)
	if err != nil {
		return nil, err
	}
	return parseCommitTimes(out)
}

// parseCommitTimes parses one ISO8601 timestamp per line.
func parseCommitTimes(out []byte) ([]time.Time, error) {
	var times []time.Time
	for line := range strings.SplitSeq(strings.TrimSpace(string(out)), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, line)
		if err != nil {
			return nil, fmt.Errorf("unexpected commit time %q: %w", line, err)
		}
		times = append(times, t)
	}
	return times, nil
}

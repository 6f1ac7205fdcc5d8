package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Context manages git operations for a repository.
type Context struct {
	repoPath   string        // Path to the repository root
	workDir    string        // Working directory for commands (defaults to repoPath)
	binary     string        // Git executable (defaults to "git")
	runner     CommandRunner // Command runner (defaults to ExecRunner)
	skipVerify bool
}

// Option configures Context.
type Option func(*Context)

// NewContext creates a new git context for the repository.
// It applies the options, then verifies that the path is a git repository.
func NewContext(repoPath string, opts ...Option) (*Context, error) {
	absPath, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	g := &Context{
		repoPath: absPath,
		workDir:  absPath,
		binary:   "git",
		runner:   NewExecRunner(),
	}

	for _, opt := range opts {
		opt(g)
	}

	if !g.skipVerify {
		if _, err := g.runGit(context.Background(), "verify repository", "rev-parse", "--git-dir"); err != nil {
			var gitErr *Error
			if errors.As(err, &gitErr) && gitErr.ExitCode == -1 {
				return nil, err
			}
			return nil, ErrNotGitRepo
		}
	}

	return g, nil
}

// WithRunner sets a custom command runner for git operations.
// This is primarily used for testing to inject mock command execution.
func WithRunner(runner CommandRunner) Option {
	return func(g *Context) {
		g.runner = runner
	}
}

// WithBinary sets the git executable. Empty values are ignored.
func WithBinary(path string) Option {
	return func(g *Context) {
		if path != "" {
			g.binary = path
		}
	}
}

// WithoutVerify skips the repository check in NewContext.
// Useful with scripted runners, where the check would consume a response.
func WithoutVerify() Option {
	return func(g *Context) {
		g.skipVerify = true
	}
}

// RepoPath returns the path to the repository.
func (g *Context) RepoPath() string {
	return g.repoPath
}

// WorkDir returns the working directory for git commands.
func (g *Context) WorkDir() string {
	return g.workDir
}

// Binary returns the git executable used for commands.
func (g *Context) Binary() string {
	return g.binary
}

// CurrentBranch returns the current branch name.
func (g *Context) CurrentBranch(ctx context.Context) (string, error) {
	return g.runGit(ctx, "get current branch", "rev-parse", "--abbrev-ref", "HEAD")
}

// Status returns the working tree status in short format.
func (g *Context) Status(ctx context.Context) (string, error) {
	return g.runGit(ctx, "status", "status", "--short")
}

// IsClean returns true if the working tree has no uncommitted or untracked changes.
func (g *Context) IsClean(ctx context.Context) (bool, error) {
	status, err := g.Status(ctx)
	if err != nil {
		return false, err
	}
	return status == "", nil
}

// stageBatchBytes bounds the argument bytes passed to a single "git add",
// keeping the command line well below the kernel's ARG_MAX.
var stageBatchBytes = 64 * 1024

// Stage adds files to the staging area. Long file lists are split across
// several "git add" calls.
func (g *Context) Stage(ctx context.Context, files ...string) error {
	for _, batch := range batchPaths(files, stageBatchBytes) {
		args := append([]string{"add", "--"}, batch...)
		if _, err := g.runGit(ctx, "stage files", args...); err != nil {
			return err
		}
	}
	return nil
}

// batchPaths splits paths into consecutive groups whose combined length,
// counting one terminator per path, stays within limit. A single path
// longer than limit gets a group of its own.
func batchPaths(paths []string, limit int) [][]string {
	var (
		batches [][]string
		current []string
		size    int
	)
	for _, p := range paths {
		n := len(p) + 1
		if len(current) > 0 && size+n > limit {
			batches = append(batches, current)
			current, size = nil, 0
		}
		current = append(current, p)
		size += n
	}
	if len(current) > 0 {
		batches = append(batches, current)
	}
	return batches
}

// UntrackedFiles lists untracked files that are not ignored, relative to the work dir.
func (g *Context) UntrackedFiles(ctx context.Context) ([]string, error) {
	res, err := g.Exec(ctx, "list untracked files", ExecOptions{},
		"ls-files", "--others", "--exclude-standard", "-z")
	if err != nil {
		return nil, err
	}

	var files []string
	for _, path := range strings.Split(res.Stdout, "\x00") {
		if path != "" {
			files = append(files, path)
		}
	}
	return files, nil
}

// StageUntracked stages every untracked, non-ignored file.
// It returns the staged paths.
func (g *Context) StageUntracked(ctx context.Context) ([]string, error) {
	files, err := g.UntrackedFiles(ctx)
	if err != nil {
		return nil, err
	}
	if err := g.Stage(ctx, files...); err != nil {
		return nil, err
	}
	return files, nil
}

// Package testutil provides helpers for tests that run against real git repositories.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// SetupTestRepo creates a temporary git repository with one commit.
// Returns the path to the repository.
// The repository is automatically cleaned up when the test ends.
func SetupTestRepo(t *testing.T) string {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()

	MustGit(t, dir, "init", "--initial-branch=main")
	MustGit(t, dir, "config", "user.email", "test@test.com")
	MustGit(t, dir, "config", "user.name", "Test User")
	MustGit(t, dir, "config", "commit.gpgsign", "false")

	WriteFile(t, dir, "README.md", "# Test Repository\n")
	MustGit(t, dir, "add", ".")
	MustGit(t, dir, "commit", "-m", "Initial commit")

	return dir
}

// SetupTestRepoWithFiles creates a test repo with the given files committed.
func SetupTestRepoWithFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := SetupTestRepo(t)
	for path, content := range files {
		WriteFile(t, dir, path, content)
	}
	MustGit(t, dir, "add", ".")
	MustGit(t, dir, "commit", "-m", "Add test files")

	return dir
}

// WriteFile creates or overwrites a file in the repository without staging it.
func WriteFile(t *testing.T, repoDir, path, content string) {
	t.Helper()

	fullPath := filepath.Join(repoDir, path)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
}

// ReadFile returns the content of a file in the repository.
func ReadFile(t *testing.T, repoDir, path string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(repoDir, path))
	if err != nil {
		t.Fatalf("failed to read file %s: %v", path, err)
	}
	return string(data)
}

// FileExists reports whether a file exists in the repository.
func FileExists(t *testing.T, repoDir, path string) bool {
	t.Helper()

	_, err := os.Stat(filepath.Join(repoDir, path))
	return err == nil
}

// CommitFile creates or updates a file and commits it.
func CommitFile(t *testing.T, repoDir, path, content, message string) {
	t.Helper()

	WriteFile(t, repoDir, path, content)
	MustGit(t, repoDir, "add", path)
	MustGit(t, repoDir, "commit", "-m", message)
}

// CreateBranch creates and checks out a new branch.
func CreateBranch(t *testing.T, repoDir, branch string) {
	t.Helper()
	MustGit(t, repoDir, "checkout", "-b", branch)
}

// GetCurrentBranch returns the current branch name.
func GetCurrentBranch(t *testing.T, repoDir string) string {
	t.Helper()
	return strings.TrimSpace(MustGit(t, repoDir, "branch", "--show-current"))
}

// GetHeadSHA returns the current HEAD SHA.
func GetHeadSHA(t *testing.T, repoDir string) string {
	t.Helper()
	return strings.TrimSpace(MustGit(t, repoDir, "rev-parse", "HEAD"))
}

// Stash creates a stash entry with git's default message,
// the way a tool other than devstash would.
func Stash(t *testing.T, repoDir string) {
	t.Helper()
	MustGit(t, repoDir, "stash", "push", "--include-untracked")
}

// StashWithMessage creates a stash entry with the given message.
func StashWithMessage(t *testing.T, repoDir, message string) {
	t.Helper()
	MustGit(t, repoDir, "stash", "push", "--include-untracked", "-m", message)
}

// StashPop pops the latest stash entry.
func StashPop(t *testing.T, repoDir string) {
	t.Helper()
	MustGit(t, repoDir, "stash", "pop")
}

// StashCount returns the number of entries on the stash stack.
func StashCount(t *testing.T, repoDir string) int {
	t.Helper()

	out := strings.TrimSpace(MustGit(t, repoDir, "stash", "list", "--format=%H"))
	if out == "" {
		return 0
	}
	return len(strings.Split(out, "\n"))
}

// StashSHA returns the commit SHA of stash@{index}.
func StashSHA(t *testing.T, repoDir string, index int) string {
	t.Helper()
	return strings.TrimSpace(MustGit(t, repoDir, "rev-parse", "stash@{"+strconv.Itoa(index)+"}"))
}

// MustGit runs a git command in dir, failing the test on error.
// Returns stdout.
func MustGit(t *testing.T, dir string, args ...string) string {
	t.Helper()

	out, err := runGit(dir, args...)
	if err != nil {
		t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
	return out
}

// runGit runs a git command in the specified directory with a fixed identity.
func runGit(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=Test User",
		"GIT_AUTHOR_EMAIL=test@test.com",
		"GIT_COMMITTER_NAME=Test User",
		"GIT_COMMITTER_EMAIL=test@test.com",
	)

	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return string(out) + stderr.String(), err
	}
	return string(out), nil
}

package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/randalmurphal/devstash/testutil"
)

func TestNewContext(t *testing.T) {
	t.Run("valid repo", func(t *testing.T) {
		dir := testutil.SetupTestRepo(t)

		g, err := NewContext(dir)
		if err != nil {
			t.Fatalf("NewContext: %v", err)
		}
		if g.RepoPath() != dir {
			t.Errorf("RepoPath = %q, want %q", g.RepoPath(), dir)
		}
		if g.WorkDir() != dir {
			t.Errorf("WorkDir = %q, want %q", g.WorkDir(), dir)
		}
		if g.Binary() != "git" {
			t.Errorf("Binary = %q, want git", g.Binary())
		}
	})

	t.Run("non-git directory", func(t *testing.T) {
		_, err := NewContext(t.TempDir())
		if err != ErrNotGitRepo {
			t.Errorf("err = %v, want ErrNotGitRepo", err)
		}
	})

	t.Run("nonexistent path", func(t *testing.T) {
		_, err := NewContext("/nonexistent/path/for/devstash")
		if err == nil {
			t.Error("expected error for non-existent path")
		}
	})

	t.Run("missing binary", func(t *testing.T) {
		_, err := NewContext(t.TempDir(), WithBinary("devstash-no-such-git"))
		if err == nil || err == ErrNotGitRepo {
			t.Errorf("err = %v, want the exec failure", err)
		}
	})

	t.Run("without verify", func(t *testing.T) {
		runner := NewSequentialMockRunner()
		g, err := NewContext(t.TempDir(), WithRunner(runner), WithoutVerify(), WithBinary("/usr/local/bin/git"))
		if err != nil {
			t.Fatalf("NewContext: %v", err)
		}
		if len(runner.Calls) != 0 {
			t.Errorf("expected no git calls, got %d", len(runner.Calls))
		}
		if g.Binary() != "/usr/local/bin/git" {
			t.Errorf("Binary = %q", g.Binary())
		}
	})
}

func TestContext_StageUntracked(t *testing.T) {
	runner := NewSequentialMockRunner()
	runner.AddOutput("new.txt\x00dir/other.txt\x00", nil) // git ls-files --others
	runner.AddOutput("", nil)                             // git add -- new.txt dir/other.txt

	g := newTestContext(t, runner)

	files, err := g.StageUntracked(context.Background())
	if err != nil {
		t.Fatalf("StageUntracked: %v", err)
	}

	want := []string{"new.txt", "dir/other.txt"}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("files = %v, want %v", files, want)
	}

	calls := runner.CallArgs()
	wantAdd := []string{"add", "--", "new.txt", "dir/other.txt"}
	if !reflect.DeepEqual(calls[1], wantAdd) {
		t.Errorf("add call = %v, want %v", calls[1], wantAdd)
	}
}

func TestContext_StageUntracked_Nothing(t *testing.T) {
	runner := NewSequentialMockRunner()
	runner.AddOutput("", nil) // git ls-files --others

	g := newTestContext(t, runner)

	files, err := g.StageUntracked(context.Background())
	if err != nil {
		t.Fatalf("StageUntracked: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("files = %v, want none", files)
	}
	if len(runner.Calls) != 1 {
		t.Errorf("expected only ls-files, got %d calls", len(runner.Calls))
	}
}

func TestContext_RealRepository(t *testing.T) {
	dir := testutil.SetupTestRepo(t)
	ctx := context.Background()

	g, err := NewContext(dir)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}

	clean, err := g.IsClean(ctx)
	if err != nil {
		t.Fatalf("IsClean: %v", err)
	}
	if !clean {
		t.Error("fresh repository should be clean")
	}

	if err := os.WriteFile(filepath.Join(dir, "untracked.txt"), []byte("x\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	files, err := g.StageUntracked(ctx)
	if err != nil {
		t.Fatalf("StageUntracked: %v", err)
	}
	if len(files) != 1 || files[0] != "untracked.txt" {
		t.Errorf("files = %v, want [untracked.txt]", files)
	}

	status, err := g.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status != "A  untracked.txt" {
		t.Errorf("Status = %q, want staged addition", status)
	}

	branch, err := g.CurrentBranch(ctx)
	if err != nil {
		t.Fatalf("CurrentBranch: %v", err)
	}
	if branch != "main" {
		t.Errorf("CurrentBranch = %q, want main", branch)
	}
}

func TestContextWithGit(t *testing.T) {
	gitCtx := &Context{repoPath: "/test/repo", workDir: "/test/repo"}

	ctx := ContextWithGit(context.Background(), gitCtx)

	retrieved := GitFromContext(ctx)
	if retrieved == nil {
		t.Fatal("GitFromContext returned nil")
	}
	if retrieved.repoPath != "/test/repo" {
		t.Errorf("repoPath = %q, want %q", retrieved.repoPath, "/test/repo")
	}
}

func TestGitFromContext_Missing(t *testing.T) {
	if retrieved := GitFromContext(context.Background()); retrieved != nil {
		t.Errorf("expected nil, got %v", retrieved)
	}
}

func TestContext_Stage_SplitsLongFileLists(t *testing.T) {
	// 20,000 paths of 160 bytes is well past a typical 2 MiB ARG_MAX.
	files := make([]string, 20000)
	total := 0
	for i := range files {
		files[i] = fmt.Sprintf("deeply/nested/%0145d.txt", i)
		total += len(files[i]) + 1
	}
	if total <= 2*1024*1024 {
		t.Fatalf("test file list is only %d bytes", total)
	}

	runner := NewMockRunner()
	runner.OnAnyCommand().Return("", nil)
	g := newTestContext(t, runner)

	if err := g.Stage(context.Background(), files...); err != nil {
		t.Fatalf("Stage: %v", err)
	}

	if len(runner.Calls) < 2 {
		t.Fatalf("expected several git add calls, got %d", len(runner.Calls))
	}

	var staged []string
	for i, call := range runner.Calls {
		if len(call.Args) < 3 || call.Args[0] != "add" || call.Args[1] != "--" {
			t.Fatalf("call %d args = %v, want add -- <paths>", i, call.Args[:min(len(call.Args), 3)])
		}
		size := 0
		for _, p := range call.Args[2:] {
			size += len(p) + 1
		}
		if size > stageBatchBytes {
			t.Errorf("call %d passes %d path bytes, limit %d", i, size, stageBatchBytes)
		}
		staged = append(staged, call.Args[2:]...)
	}
	if !reflect.DeepEqual(staged, files) {
		t.Errorf("staged %d paths, want all %d in order", len(staged), len(files))
	}
}

func TestContext_Stage_StopsOnFailure(t *testing.T) {
	orig := stageBatchBytes
	stageBatchBytes = 8
	t.Cleanup(func() { stageBatchBytes = orig })

	runner := NewSequentialMockRunner()
	runner.AddOutput("", nil)
	runner.AddExit(128, "", "fatal: pathspec 'b.txt' did not match any files")

	g := newTestContext(t, runner)
	err := g.Stage(context.Background(), "a.txt", "b.txt", "c.txt")
	if err == nil {
		t.Fatal("expected error from second batch")
	}
	if len(runner.Calls) != 2 {
		t.Errorf("calls = %d, want 2", len(runner.Calls))
	}
}

func TestBatchPaths(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
		limit int
		want  [][]string
	}{
		{"empty", nil, 10, nil},
		{"fits in one", []string{"a", "b", "c"}, 10, [][]string{{"a", "b", "c"}}},
		{"splits at limit", []string{"aaa", "bbb", "ccc"}, 8, [][]string{{"aaa", "bbb"}, {"ccc"}}},
		{"oversized path alone", []string{"a", "toolongpath", "b"}, 4, [][]string{{"a"}, {"toolongpath"}, {"b"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := batchPaths(tt.paths, tt.limit); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("batchPaths() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContext_StageUntracked_RealRepositoryInBatches(t *testing.T) {
	orig := stageBatchBytes
	stageBatchBytes = 64
	t.Cleanup(func() { stageBatchBytes = orig })

	dir := testutil.SetupTestRepo(t)
	for i := range 40 {
		testutil.WriteFile(t, dir, fmt.Sprintf("batch/file-%02d.txt", i), "x\n")
	}

	g, err := NewContext(dir)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}

	files, err := g.StageUntracked(context.Background())
	if err != nil {
		t.Fatalf("StageUntracked: %v", err)
	}
	if len(files) != 40 {
		t.Fatalf("staged %d files, want 40", len(files))
	}

	untracked, err := g.UntrackedFiles(context.Background())
	if err != nil {
		t.Fatalf("UntrackedFiles: %v", err)
	}
	if len(untracked) != 0 {
		t.Errorf("still untracked after staging: %v", untracked)
	}
}

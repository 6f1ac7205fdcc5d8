package errors

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"testing"

	"github.com/randalmurphal/devstash/git"
	"github.com/randalmurphal/devstash/stash"
)

// resultError builds the error a stash operation returns for a rejected run.
func resultError(op string, exitCode int, stderr string, kind git.ErrorKind, cause error) error {
	res := &git.Result{ExitCode: exitCode, Stderr: stderr, Kind: kind}
	return git.NewResultError(op, "git", []string{"stash"}, res, cause)
}

func TestCLIError(t *testing.T) {
	err := &CLIError{
		Err:        stash.ErrPopFailed,
		Message:    "Test message",
		Suggestion: "Test suggestion",
		Details:    "Test details",
	}

	if got := err.Error(); got != "Test message\nTest details\n\nTest suggestion" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, stash.ErrPopFailed) {
		t.Error("expected error to unwrap to ErrPopFailed")
	}
}

func TestCLIError_MinimalFields(t *testing.T) {
	err := &CLIError{Err: ErrNotInGitRepo, Message: "Not a repo"}
	if err.Error() != "Not a repo" {
		t.Errorf("Error() = %q, want %q", err.Error(), "Not a repo")
	}
}

func TestWrapStashError(t *testing.T) {
	conflict := resultError("pop stash", 1, "CONFLICT (content): Merge conflict in a.go",
		git.KindMergeConflict, fmt.Errorf("%w: %w", stash.ErrPopFailed, git.ErrMergeConflict))
	localChanges := resultError("apply stash", 1,
		"error: Your local changes to the following files would be overwritten by merge:\n\tREADME.md",
		git.KindLocalChanges, fmt.Errorf("%w: %w", stash.ErrApplyFailed, git.ErrLocalChanges))
	stashFailed := resultError("create stash", 1, "error: could not write index", git.KindNone, stash.ErrStashFailed)
	popRefused := resultError("pop stash", 1, "error: stash@{0} is locked", git.KindNone, stash.ErrPopFailed)
	missingGit := &git.Error{
		Op:       "list stashes",
		ExitCode: -1,
		Err:      &git.CommandError{Command: "git", Err: &exec.Error{Name: "git", Err: exec.ErrNotFound}},
	}

	tests := []struct {
		name        string
		err         error
		wantWrapped bool
		wantSubstr  string
		wantDetails string
	}{
		{name: "conflict", err: conflict, wantWrapped: true, wantSubstr: "The pop stopped on merge conflicts", wantDetails: "Merge conflict in a.go"},
		{name: "local changes", err: localChanges, wantWrapped: true, wantSubstr: "The apply would overwrite local changes", wantDetails: "README.md"},
		{name: "stash failed", err: stashFailed, wantWrapped: true, wantSubstr: "could not create the stash", wantDetails: "could not write index"},
		{name: "pop refused", err: popRefused, wantWrapped: true, wantSubstr: "git refused the pop", wantDetails: "is locked"},
		{name: "not a repo", err: git.ErrNotGitRepo, wantWrapped: true, wantSubstr: "within a git repository"},
		{name: "empty branch", err: stash.ErrEmptyBranch, wantWrapped: true, wantSubstr: "branch name is required"},
		{name: "git missing", err: missingGit, wantWrapped: true, wantSubstr: "Could not run git"},
		{name: "unrecognized", err: errors.New("disk full"), wantWrapped: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapStashError(tt.err)

			var cliErr *CLIError
			if isCLI := errors.As(got, &cliErr); isCLI != tt.wantWrapped {
				t.Fatalf("wrapped = %v, want %v (%v)", isCLI, tt.wantWrapped, got)
			}
			if !tt.wantWrapped {
				if got != tt.err {
					t.Errorf("unrecognized error should be returned unchanged, got %v", got)
				}
				return
			}

			if !errors.Is(got, tt.err) {
				t.Error("wrapped error should keep the original as its cause")
			}
			if !strings.Contains(strings.ToLower(got.Error()), strings.ToLower(tt.wantSubstr)) {
				t.Errorf("Error() = %q, want to contain %q", got.Error(), tt.wantSubstr)
			}
			if tt.wantDetails != "" && !strings.Contains(cliErr.Details, tt.wantDetails) {
				t.Errorf("Details = %q, want to contain %q", cliErr.Details, tt.wantDetails)
			}
		})
	}
}

func TestWrapStashError_Nil(t *testing.T) {
	if WrapStashError(nil) != nil {
		t.Error("WrapStashError(nil) should be nil")
	}
}

func TestWrapStashError_AlreadyWrapped(t *testing.T) {
	original := NewEntryNotFoundError("main")
	wrapped := fmt.Errorf("find: %w", original)
	if got := WrapStashError(wrapped); got != wrapped {
		t.Errorf("WrapStashError should not re-wrap a CLIError, got %v", got)
	}
}

type customMessenger struct {
	DefaultMessenger
}

func (customMessenger) ConflictMessage(op string) (string, string) {
	return "custom conflict during " + op, "custom suggestion"
}

func TestWrapStashError_CustomMessenger(t *testing.T) {
	err := resultError("pop stash", 1, "CONFLICT (content)", git.KindMergeConflict, stash.ErrPopFailed)

	got := WrapStashError(err, WithMessenger(customMessenger{}))
	if !strings.Contains(got.Error(), "custom conflict during pop") {
		t.Errorf("Error() = %q, want custom message", got.Error())
	}
}

func TestWrapStashError_GitBinaryInMessage(t *testing.T) {
	err := fmt.Errorf("list: %w", &exec.Error{Name: "/opt/git", Err: exec.ErrNotFound})
	got := WrapStashError(err, WithGitBinary("/opt/git"))
	if !strings.Contains(got.Error(), "(/opt/git)") {
		t.Errorf("Error() = %q, want the configured binary", got.Error())
	}
}

func TestOperation(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{resultError("pop stash", 1, "", git.KindNone, stash.ErrPopFailed), "pop"},
		{resultError("apply stash", 1, "", git.KindNone, stash.ErrApplyFailed), "apply"},
		{resultError("drop stash", 1, "", git.KindNone, errors.New("exit status 1")), "drop stash"},
		{errors.New("plain"), "stash operation"},
	}
	for _, tt := range tests {
		if got := operation(tt.err); got != tt.want {
			t.Errorf("operation(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestNewErrors(t *testing.T) {
	if err := NewNotInGitRepoError(); !IsNotInGitRepo(err) {
		t.Errorf("NewNotInGitRepoError() = %v, want IsNotInGitRepo", err)
	}

	err := NewEntryNotFoundError("feature-x")
	if !IsNotFound(err) {
		t.Errorf("NewEntryNotFoundError() = %v, want IsNotFound", err)
	}
	if !strings.Contains(err.Error(), "feature-x") {
		t.Errorf("Error() = %q, want to name the ref", err.Error())
	}
}

package git

import (
	"errors"
	"fmt"
	"strings"
)

// Git operation errors.
var (
	// ErrNotGitRepo indicates the path is not a git repository.
	ErrNotGitRepo = errors.New("not a git repository")

	// ErrMergeConflict indicates git stopped on conflicting changes.
	ErrMergeConflict = errors.New("merge conflict")

	// ErrNoSuchRef indicates a ref or revision does not exist.
	ErrNoSuchRef = errors.New("no such ref")

	// ErrLocalChanges indicates local changes would be overwritten.
	ErrLocalChanges = errors.New("local changes would be overwritten")

	// ErrMalformedOutput indicates git output could not be parsed.
	ErrMalformedOutput = errors.New("malformed git output")
)

// ErrorKind tags a failure signature recognized in git output.
type ErrorKind string

const (
	KindNone          ErrorKind = ""
	KindMergeConflict ErrorKind = "merge_conflict"
	KindNoSuchRef     ErrorKind = "no_such_ref"
	KindNotGitRepo    ErrorKind = "not_git_repo"
	KindLocalChanges  ErrorKind = "local_changes_overwritten"
)

// Err returns the sentinel error for the kind, or nil for KindNone.
func (k ErrorKind) Err() error {
	switch k {
	case KindMergeConflict:
		return ErrMergeConflict
	case KindNoSuchRef:
		return ErrNoSuchRef
	case KindNotGitRepo:
		return ErrNotGitRepo
	case KindLocalChanges:
		return ErrLocalChanges
	default:
		return nil
	}
}

// Error wraps a failed git command with context.
type Error struct {
	Op       string   // Operation that failed (e.g., "pop stash")
	Cmd      string   // Git command line that was run
	Args     []string // Git arguments
	ExitCode int      // Process exit code, -1 when the process did not run
	Stdout   string   // Raw standard output
	Stderr   string   // Raw standard error
	Output   string   // Trimmed diagnostic output used in the message
	Kind     ErrorKind
	Err      error // Underlying error
}

func (e *Error) Error() string {
	if e.Output != "" {
		return e.Op + ": " + e.Output
	}
	if e.Err != nil {
		return e.Op + ": " + e.Err.Error()
	}
	return fmt.Sprintf("%s: exit status %d", e.Op, e.ExitCode)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewResultError builds an Error for a command that ran but whose outcome
// the caller rejects. err becomes the unwrap target.
func NewResultError(op, binary string, args []string, res *Result, err error) *Error {
	gitErr := &Error{
		Op:   op,
		Cmd:  commandKey(binary, args),
		Args: args,
		Err:  err,
	}
	if res != nil {
		gitErr.ExitCode = res.ExitCode
		gitErr.Stdout = res.Stdout
		gitErr.Stderr = res.Stderr
		gitErr.Kind = res.Kind
		gitErr.Output = strings.TrimSpace(res.Stderr)
		if gitErr.Output == "" {
			gitErr.Output = strings.TrimSpace(res.Stdout)
		}
	}
	return gitErr
}

// IsKind reports whether err is a git Error carrying the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var gitErr *Error
	if errors.As(err, &gitErr) {
		return gitErr.Kind == kind
	}
	return false
}

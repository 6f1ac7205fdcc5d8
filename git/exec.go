package git

import (
	"context"
	"fmt"
	"slices"
	"strings"
)

// ExecOptions controls how Exec judges a finished command.
type ExecOptions struct {
	// SuccessExitCodes lists exit codes that count as success.
	// Defaults to {0} when empty.
	SuccessExitCodes []int

	// ExpectedErrors lists failure kinds that are returned as a Result
	// instead of an error, whatever the exit code.
	ExpectedErrors []ErrorKind
}

func (o ExecOptions) accepts(res *Result) bool {
	codes := o.SuccessExitCodes
	if len(codes) == 0 {
		codes = []int{0}
	}
	if slices.Contains(codes, res.ExitCode) {
		return true
	}
	return res.Kind != KindNone && slices.Contains(o.ExpectedErrors, res.Kind)
}

// Exec runs git with args in the working directory. op labels the operation
// in errors. A run whose exit code is not accepted by opts returns a *Error
// carrying the command, exit code and raw output.
func (g *Context) Exec(ctx context.Context, op string, opts ExecOptions, args ...string) (*Result, error) {
	res, err := g.runner.Run(ctx, g.workDir, g.binary, args...)
	if err != nil {
		return nil, &Error{
			Op:       op,
			Cmd:      commandKey(g.binary, args),
			Args:     args,
			ExitCode: -1,
			Err:      err,
		}
	}

	if res.ExitCode != 0 {
		res.Kind = ClassifyOutput(res.Stdout, res.Stderr)
	}

	if opts.accepts(res) {
		return res, nil
	}

	cause := res.Kind.Err()
	if cause == nil {
		cause = fmt.Errorf("exit status %d", res.ExitCode)
	}
	return nil, NewResultError(op, g.binary, args, res, cause)
}

// runGit executes a git command that must exit zero and returns trimmed stdout.
func (g *Context) runGit(ctx context.Context, op string, args ...string) (string, error) {
	res, err := g.Exec(ctx, op, ExecOptions{}, args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Stdout), nil
}

// Output signatures, matched case-sensitively against git's English messages.
var (
	conflictSignatures = []string{
		"CONFLICT (",
		"Merge conflict in",
		"needs merge",
	}
	noSuchRefSignatures = []string{
		"unknown revision or path not in the working tree",
		"ambiguous argument",
		"is not a valid reference",
		"is not a stash-like commit",
		"No stash entries found",
	}
	notRepoSignatures = []string{
		"not a git repository",
	}
	localChangesSignatures = []string{
		"Your local changes to the following files would be overwritten",
		"already exists, no checkout",
	}
)

// ClassifyOutput recognizes well-known failure signatures in command output.
// Conflicts are reported on stdout by some git versions, so both streams are checked.
func ClassifyOutput(stdout, stderr string) ErrorKind {
	combined := stderr + "\n" + stdout
	switch {
	case containsAny(combined, conflictSignatures):
		return KindMergeConflict
	case containsAny(combined, localChangesSignatures):
		return KindLocalChanges
	case containsAny(stderr, notRepoSignatures):
		return KindNotGitRepo
	case containsAny(stderr, noSuchRefSignatures):
		return KindNoSuchRef
	default:
		return KindNone
	}
}

func containsAny(s string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}

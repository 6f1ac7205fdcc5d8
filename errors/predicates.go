package errors

import (
	"errors"
	"os/exec"

	"github.com/randalmurphal/devstash/git"
	"github.com/randalmurphal/devstash/stash"
)

// IsConflictError reports whether a pop or apply stopped on merge conflicts.
func IsConflictError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, git.ErrMergeConflict) || git.IsKind(err, git.KindMergeConflict)
}

// IsNotInGitRepo reports whether err means the directory is not a repository.
func IsNotInGitRepo(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrNotInGitRepo) || errors.Is(err, git.ErrNotGitRepo)
}

// IsStashFailure reports whether git refused a create, pop or apply.
func IsStashFailure(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, stash.ErrStashFailed) ||
		errors.Is(err, stash.ErrPopFailed) ||
		errors.Is(err, stash.ErrApplyFailed)
}

// IsNotFound reports whether no devstash entry matched.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEntryNotFound)
}

// IsGitMissing reports whether the git executable could not be found.
func IsGitMissing(err error) bool {
	return errors.Is(err, exec.ErrNotFound)
}

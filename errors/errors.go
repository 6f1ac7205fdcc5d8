package errors

import "errors"

// CLI errors without a lower-level cause.
var (
	// ErrNotInGitRepo indicates the command requires a git repository.
	ErrNotInGitRepo = errors.New("not in a git repository")

	// ErrEntryNotFound indicates no devstash entry matched the request.
	ErrEntryNotFound = errors.New("stash entry not found")
)

package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/randalmurphal/devstash/git"
	"github.com/randalmurphal/devstash/stash"
)

// CLIError wraps an error with user-friendly context and suggestions.
type CLIError struct {
	// Err is the underlying error
	Err error

	// Message is a user-friendly description of what went wrong
	Message string

	// Suggestion is an actionable hint for the user
	Suggestion string

	// Details provides additional context (optional)
	Details string
}

func (e *CLIError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)

	if e.Details != "" {
		sb.WriteString("\n")
		sb.WriteString(e.Details)
	}

	if e.Suggestion != "" {
		sb.WriteString("\n\n")
		sb.WriteString(e.Suggestion)
	}

	return sb.String()
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// ErrorMessenger provides customizable error messages.
type ErrorMessenger interface {
	NotInGitRepoMessage() (message, suggestion string)
	GitMissingMessage(binary string) (message, suggestion string)

	// ConflictMessage is used when a pop or apply left conflicts behind.
	ConflictMessage(op string) (message, suggestion string)

	// LocalChangesMessage is used when local edits block a pop or apply.
	LocalChangesMessage(op string) (message, suggestion string)

	StashFailedMessage() (message, suggestion string)

	// StashRefusedMessage is used when git rejected a pop or apply for a
	// reason not covered above.
	StashRefusedMessage(op string) (message, suggestion string)

	EmptyBranchMessage() (message, suggestion string)
	EntryNotFoundMessage(ref string) (message, suggestion string)
}

// DefaultMessenger provides default error messages.
type DefaultMessenger struct{}

func (m DefaultMessenger) NotInGitRepoMessage() (string, string) {
	return "This command must be run from within a git repository.",
		"Run it from a repository or pass --repo <path>."
}

func (m DefaultMessenger) GitMissingMessage(binary string) (string, string) {
	return fmt.Sprintf("Could not run git (%s).", binary),
		"Install git or point git_binary at it:\n  devstash config set global git_binary /path/to/git"
}

func (m DefaultMessenger) ConflictMessage(op string) (string, string) {
	return fmt.Sprintf("The %s stopped on merge conflicts.", op),
		"Resolve the conflicted files, then drop the entry with:\n  devstash drop <sha>"
}

func (m DefaultMessenger) LocalChangesMessage(op string) (string, string) {
	return fmt.Sprintf("The %s would overwrite local changes.", op),
		"Commit or stash your changes first. The entry was kept."
}

func (m DefaultMessenger) StashFailedMessage() (string, string) {
	return "git could not create the stash.",
		"Check the git output above. Nothing was stashed."
}

func (m DefaultMessenger) StashRefusedMessage(op string) (string, string) {
	return fmt.Sprintf("git refused the %s.", op),
		"Check the git output above. The entry was kept."
}

func (m DefaultMessenger) EmptyBranchMessage() (string, string) {
	return "A branch name is required.",
		"Pass the branch the changes belong to, e.g. devstash create main."
}

func (m DefaultMessenger) EntryNotFoundMessage(ref string) (string, string) {
	return fmt.Sprintf("No devstash entry for %s.", ref),
		"List entries with: devstash list"
}

// WrapConfig configures error wrapping behavior.
type WrapConfig struct {
	Messenger ErrorMessenger
	GitBinary string
}

// Option configures WrapConfig.
type Option func(*WrapConfig)

// WithMessenger sets a custom error messenger.
func WithMessenger(m ErrorMessenger) Option {
	return func(c *WrapConfig) {
		c.Messenger = m
	}
}

// WithGitBinary names the git executable in messages.
func WithGitBinary(binary string) Option {
	return func(c *WrapConfig) {
		c.GitBinary = binary
	}
}

func newWrapConfig(opts []Option) *WrapConfig {
	cfg := &WrapConfig{
		Messenger: DefaultMessenger{},
		GitBinary: "git",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WrapStashError wraps git and stash failures with helpful guidance.
// Unrecognized errors, and errors that are already a CLIError, are
// returned unchanged.
func WrapStashError(err error, opts ...Option) error {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return err
	}

	cfg := newWrapConfig(opts)
	messenger := cfg.Messenger
	wrap := func(msg, suggestion, details string) error {
		return &CLIError{Err: err, Message: msg, Suggestion: suggestion, Details: details}
	}

	switch {
	case IsGitMissing(err):
		msg, suggestion := messenger.GitMissingMessage(cfg.GitBinary)
		return wrap(msg, suggestion, "")

	case IsNotInGitRepo(err):
		msg, suggestion := messenger.NotInGitRepoMessage()
		return wrap(msg, suggestion, "")

	case IsConflictError(err):
		msg, suggestion := messenger.ConflictMessage(operation(err))
		return wrap(msg, suggestion, gitOutput(err))

	case errors.Is(err, git.ErrLocalChanges):
		msg, suggestion := messenger.LocalChangesMessage(operation(err))
		return wrap(msg, suggestion, gitOutput(err))

	case errors.Is(err, stash.ErrStashFailed):
		msg, suggestion := messenger.StashFailedMessage()
		return wrap(msg, suggestion, gitOutput(err))

	case IsStashFailure(err):
		msg, suggestion := messenger.StashRefusedMessage(operation(err))
		return wrap(msg, suggestion, gitOutput(err))

	case errors.Is(err, stash.ErrEmptyBranch):
		msg, suggestion := messenger.EmptyBranchMessage()
		return wrap(msg, suggestion, "")
	}

	return err
}

// NewNotInGitRepoError creates an error for commands that require a git repository.
func NewNotInGitRepoError(opts ...Option) error {
	msg, suggestion := newWrapConfig(opts).Messenger.NotInGitRepoMessage()
	return &CLIError{
		Err:        ErrNotInGitRepo,
		Message:    msg,
		Suggestion: suggestion,
	}
}

// NewEntryNotFoundError creates an error for a branch or SHA with no entry.
func NewEntryNotFoundError(ref string, opts ...Option) error {
	msg, suggestion := newWrapConfig(opts).Messenger.EntryNotFoundMessage(ref)
	return &CLIError{
		Err:        ErrEntryNotFound,
		Message:    msg,
		Suggestion: suggestion,
	}
}

// operation names the stash operation behind err for messages.
func operation(err error) string {
	switch {
	case errors.Is(err, stash.ErrPopFailed):
		return "pop"
	case errors.Is(err, stash.ErrApplyFailed):
		return "apply"
	}
	var gitErr *git.Error
	if errors.As(err, &gitErr) && gitErr.Op != "" {
		return gitErr.Op
	}
	return "stash operation"
}

// gitOutput returns the diagnostic git printed, if err carries one.
func gitOutput(err error) string {
	var gitErr *git.Error
	if errors.As(err, &gitErr) {
		return gitErr.Output
	}
	return ""
}

package stash

import (
	"context"
	"errors"
	"log/slog"

	"github.com/randalmurphal/devstash/git"
	"github.com/randalmurphal/devstash/notify"
)

// Stash operation errors.
var (
	// ErrStashFailed indicates git reported an error while creating a stash.
	ErrStashFailed = errors.New("stash failed")

	// ErrPopFailed indicates a pop did not apply cleanly; the entry is kept.
	ErrPopFailed = errors.New("stash pop failed")

	// ErrApplyFailed indicates an apply did not complete cleanly.
	ErrApplyFailed = errors.New("stash apply failed")

	// ErrEmptyBranch indicates a stash was requested for an empty branch name.
	ErrEmptyBranch = errors.New("branch name is required")
)

// Store reads and mutates devstash-owned entries in one repository.
// It caches nothing; see the package documentation for the concurrency contract.
type Store struct {
	git      *git.Context
	logger   *slog.Logger
	notifier notify.Notifier
}

// Option configures Store.
type Option func(*Store)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithNotifier sets the notifier that receives stash lifecycle events.
// Without one, events go to the notifier carried by the operation's
// context (see notify.WithNotifier), if any.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Store) {
		s.notifier = n
	}
}

// NewStore creates a Store for the repository behind g.
func NewStore(g *git.Context, opts ...Option) *Store {
	s := &Store{
		git:    g,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Git returns the git context the store operates on.
func (s *Store) Git() *git.Context {
	return s.git
}

// emit delivers an event. Notifier failures are logged, never returned.
func (s *Store) emit(ctx context.Context, event notify.Event) {
	n := s.notifier
	if n == nil {
		n = notify.NotifierFromContext(ctx)
	}
	if n == nil {
		return
	}

	event.Repo = s.git.RepoPath()
	if err := n.Notify(ctx, event); err != nil {
		s.logger.Warn("stash notification failed",
			"event_type", event.Type,
			"event_id", event.ID,
			"error", err,
		)
	}
}

func (s *Store) emitEntry(ctx context.Context, typ notify.EventType, entry *Entry, message string) {
	event := notify.NewEvent(typ, message)
	event.Branch = entry.Branch
	event.SHA = entry.SHA
	event.Ref = entry.Name
	s.emit(ctx, event)
}

func (s *Store) emitFailure(ctx context.Context, op string, entry *Entry, err error) {
	event := notify.NewEvent(notify.EventStashFailed, op+" failed")
	event.Severity = notify.SeverityError
	event.Metadata = map[string]any{"error": err.Error()}
	if entry != nil {
		event.Branch = entry.Branch
		event.SHA = entry.SHA
		event.Ref = entry.Name
	}
	s.emit(ctx, event)
}

var storeContextKey = &struct{ name string }{"stash-store"}

// WithStore adds a Store to a context.Context.
func WithStore(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, storeContextKey, s)
}

// StoreFromContext retrieves a Store from a context.Context.
// Returns nil if none is present.
func StoreFromContext(ctx context.Context) *Store {
	if s, ok := ctx.Value(storeContextKey).(*Store); ok {
		return s
	}
	return nil
}

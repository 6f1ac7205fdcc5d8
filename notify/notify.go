package notify

import (
	"context"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// =============================================================================
// Notification Types
// =============================================================================

// EventType represents the kind of stash lifecycle event.
type EventType string

// Event type constants.
const (
	EventStashCreated EventType = "stash_created"
	EventStashApplied EventType = "stash_applied"
	EventStashPopped  EventType = "stash_popped"
	EventStashDropped EventType = "stash_dropped"
	EventStashFailed  EventType = "stash_failed"
)

// Severity constants.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Event describes a stash operation for notification.
type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Repo      string         `json:"repo"`
	Branch    string         `json:"branch,omitempty"`
	SHA       string         `json:"sha,omitempty"`
	Ref       string         `json:"ref,omitempty"`
	Message   string         `json:"message"`
	Severity  string         `json:"severity"` // SeverityInfo, SeverityWarning, SeverityError
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewEvent creates an info-level event with a fresh ID and timestamp.
func NewEvent(typ EventType, message string) Event {
	id, err := nanoid.New()
	if err != nil {
		// nanoid only fails when the system random source does.
		id = ""
	}
	return Event{
		ID:        id,
		Type:      typ,
		Message:   message,
		Severity:  SeverityInfo,
		Timestamp: time.Now().UTC(),
	}
}

// =============================================================================
// Notifier Interface
// =============================================================================

// Notifier sends notifications about stash events.
type Notifier interface {
	// Notify sends a notification. Implementations should return promptly;
	// callers log the error and carry on.
	Notify(ctx context.Context, event Event) error
}

// =============================================================================
// Context Injection
// =============================================================================

type serviceContextKey string

const notifierServiceKey serviceContextKey = "devstash.notifier"

// WithNotifier adds a Notifier to the context.
func WithNotifier(ctx context.Context, n Notifier) context.Context {
	return context.WithValue(ctx, notifierServiceKey, n)
}

// NotifierFromContext extracts the Notifier from context.
// Returns nil if no notifier is configured.
func NotifierFromContext(ctx context.Context) Notifier {
	if n, ok := ctx.Value(notifierServiceKey).(Notifier); ok {
		return n
	}
	return nil
}

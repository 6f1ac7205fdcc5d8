package stash

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/randalmurphal/devstash/git"
	"github.com/randalmurphal/devstash/notify"
)

// record is one reflog line: positional name, SHA, subject.
type record struct {
	name, sha, subject string
}

// reflogOutput renders records the way `git log -g -z` prints them.
func reflogOutput(records ...record) string {
	var b strings.Builder
	for _, r := range records {
		b.WriteString(r.name + fieldDelimiter + r.sha + fieldDelimiter + r.subject + recordTerminator)
	}
	return b.String()
}

type recordingNotifier struct {
	events []notify.Event
}

func (r *recordingNotifier) Notify(_ context.Context, event notify.Event) error {
	r.events = append(r.events, event)
	return nil
}

func (r *recordingNotifier) types() []notify.EventType {
	out := make([]notify.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

// newScriptedStore builds a Store over a scripted runner. The returned
// buffer collects debug-level log output.
func newScriptedStore(t *testing.T, runner git.CommandRunner, opts ...Option) (*Store, *bytes.Buffer) {
	t.Helper()

	g, err := git.NewContext(t.TempDir(), git.WithRunner(runner), git.WithoutVerify())
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewStore(g, append([]Option{WithLogger(logger)}, opts...)...), &logs
}

package stash

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/randalmurphal/devstash/git"
)

func TestParseReflog_Empty(t *testing.T) {
	listing := ParseReflog("")
	if listing.Total != 0 {
		t.Errorf("Total = %d, want 0", listing.Total)
	}
	if len(listing.Entries) != 0 {
		t.Errorf("Entries = %d, want 0", len(listing.Entries))
	}
}

func TestParseReflog_OwnedAndForeign(t *testing.T) {
	out := reflogOutput(
		record{"stash@{0}", "sha-b", "On main: " + BuildMarkerMessage("b")},
		record{"stash@{1}", "sha-foreign", "WIP on main: 1a2b3c4 Initial commit"},
		record{"stash@{2}", "sha-a", "On main: " + BuildMarkerMessage("a")},
	)

	listing := ParseReflog(out)

	if listing.Total != 3 {
		t.Errorf("Total = %d, want 3", listing.Total)
	}
	if len(listing.Entries) != 2 {
		t.Fatalf("Entries = %d, want 2", len(listing.Entries))
	}
	if listing.Foreign() != 1 {
		t.Errorf("Foreign() = %d, want 1", listing.Foreign())
	}

	first, second := listing.Entries[0], listing.Entries[1]
	if first.Name != "stash@{0}" || first.SHA != "sha-b" || first.Branch != "b" {
		t.Errorf("first entry = %+v", first)
	}
	if second.Name != "stash@{2}" || second.SHA != "sha-a" || second.Branch != "a" {
		t.Errorf("second entry = %+v", second)
	}
	for _, e := range listing.Entries {
		if e.Files.Kind != FilesNotLoaded {
			t.Errorf("entry %s Files.Kind = %v, want not loaded", e.SHA, e.Files.Kind)
		}
	}
}

func TestParseReflog_TotalIsRawRecordsMinusOne(t *testing.T) {
	for n := 0; n <= 5; n++ {
		records := make([]record, n)
		for i := range records {
			records[i] = record{"stash@{x}", "sha", "WIP"}
		}
		out := reflogOutput(records...)

		raw := len(strings.Split(out, recordTerminator))
		listing := ParseReflog(out)
		if listing.Total != raw-1 {
			t.Errorf("n=%d: Total = %d, want raw-1 = %d", n, listing.Total, raw-1)
		}
		if listing.Total != n {
			t.Errorf("n=%d: Total = %d, want %d", n, listing.Total, n)
		}
	}
}

func TestParseReflog_DiscardsMalformedRecords(t *testing.T) {
	out := reflogOutput(record{"stash@{0}", "sha-0", BuildMarkerMessage("ok")}) +
		"stash@{1}" + fieldDelimiter + "missing-subject" + recordTerminator +
		"stash@{2}" + fieldDelimiter + "sha" + fieldDelimiter + "a" + fieldDelimiter + "extra" + recordTerminator

	listing, discarded := parseReflog(out)

	if discarded != 2 {
		t.Errorf("discarded = %d, want 2", discarded)
	}
	if len(listing.Entries) != 1 || listing.Entries[0].Branch != "ok" {
		t.Errorf("Entries = %+v, want only the well-formed owned entry", listing.Entries)
	}
	if listing.Total != 3 {
		t.Errorf("Total = %d, want 3", listing.Total)
	}
}

func TestStore_List(t *testing.T) {
	runner := git.NewSequentialMockRunner()
	runner.AddOutput(reflogOutput(
		record{"stash@{0}", "sha-1", BuildMarkerMessage("feature-x")},
	), nil)

	store, _ := newScriptedStore(t, runner)

	listing, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if listing.Total != 1 || len(listing.Entries) != 1 {
		t.Errorf("listing = %+v", listing)
	}

	want := []string{"log", "-g", "-z", "--pretty=%gD%x1F%H%x1F%gs", "refs/stash"}
	got := runner.CallArgs()[0]
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("args = %q, want %q", got, want)
	}
}

// No stash was ever created.
func TestStore_List_NoStashRef(t *testing.T) {
	runner := git.NewSequentialMockRunner()
	runner.AddExit(128, "", "fatal: ambiguous argument 'refs/stash': unknown revision or path not in the working tree.\n")

	store, _ := newScriptedStore(t, runner)

	listing, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if listing.Total != 0 || len(listing.Entries) != 0 {
		t.Errorf("listing = %+v, want empty", listing)
	}
}

func TestStore_List_Failure(t *testing.T) {
	runner := git.NewSequentialMockRunner()
	runner.AddExit(129, "", "usage: git log\n")

	store, _ := newScriptedStore(t, runner)

	_, err := store.List(context.Background())
	var gitErr *git.Error
	if !errors.As(err, &gitErr) {
		t.Fatalf("error = %v, want *git.Error", err)
	}
	if gitErr.ExitCode != 129 {
		t.Errorf("ExitCode = %d, want 129", gitErr.ExitCode)
	}
}

func TestStore_List_LogsDiscardedRecords(t *testing.T) {
	runner := git.NewSequentialMockRunner()
	runner.AddOutput("garbage"+recordTerminator, nil)

	store, logs := newScriptedStore(t, runner)

	if _, err := store.List(context.Background()); err != nil {
		t.Fatalf("List: %v", err)
	}
	if !strings.Contains(logs.String(), "discarded malformed stash reflog records") {
		t.Errorf("expected debug log for discarded record, got %q", logs.String())
	}
}

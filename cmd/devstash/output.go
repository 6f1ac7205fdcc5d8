package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/randalmurphal/devstash/config"
	"github.com/randalmurphal/devstash/git"
	"github.com/randalmurphal/devstash/stash"
)

const shortSHALen = 10

type entryView struct {
	Ref    string `json:"ref"`
	SHA    string `json:"sha"`
	Branch string `json:"branch"`
}

type listingView struct {
	Total   int         `json:"total"`
	Foreign int         `json:"foreign"`
	Entries []entryView `json:"entries"`
}

type changeView struct {
	Status  string `json:"status"`
	Path    string `json:"path"`
	OldPath string `json:"old_path,omitempty"`
}

type changesView struct {
	entryView
	Changes []changeView `json:"changes"`
}

type settingView struct {
	Key    string        `json:"key"`
	Value  string        `json:"value"`
	Source config.Source `json:"source"`
}

func newEntryView(e *stash.Entry) entryView {
	return entryView{Ref: e.Name, SHA: e.SHA, Branch: e.Branch}
}

func newListingView(l *stash.Listing) listingView {
	view := listingView{Total: l.Total, Foreign: l.Foreign(), Entries: []entryView{}}
	for _, e := range l.Entries {
		view.Entries = append(view.Entries, newEntryView(e))
	}
	return view
}

func newChangesView(e *stash.Entry) changesView {
	view := changesView{entryView: newEntryView(e), Changes: []changeView{}}
	for _, c := range e.Files.Changes {
		view.Changes = append(view.Changes, changeView{Status: string(c.Status), Path: c.Path, OldPath: c.OldPath})
	}
	return view
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printListing(w io.Writer, l *stash.Listing) error {
	if len(l.Entries) == 0 {
		fmt.Fprintln(w, "No devstash entries.")
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "REF\tSHA\tBRANCH")
		for _, e := range l.Entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name, shortSHA(e.SHA), e.Branch)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if foreign := l.Foreign(); foreign > 0 {
		fmt.Fprintf(w, "%d other stash %s not managed by devstash.\n", foreign, plural(foreign, "entry", "entries"))
	}
	return nil
}

func printEntry(w io.Writer, e *stash.Entry, asJSON bool) error {
	if asJSON {
		return writeJSON(w, newEntryView(e))
	}
	_, err := fmt.Fprintf(w, "%s %s (%s)\n", e.Name, e.SHA, e.Branch)
	return err
}

func printChanges(w io.Writer, e *stash.Entry) error {
	if len(e.Files.Changes) == 0 {
		_, err := fmt.Fprintln(w, "No file changes.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range e.Files.Changes {
		path := c.Path
		if c.OldPath != "" {
			path = c.OldPath + " -> " + c.Path
		}
		fmt.Fprintf(tw, "%s\t%s\n", statusLabel(c.Status), path)
	}
	return tw.Flush()
}

func printConfig(w io.Writer, resolved *config.Resolved, keys []string, asJSON bool) error {
	views := make([]settingView, 0, len(keys))
	for _, key := range keys {
		value, source := resolved.GetWithSource(key)
		views = append(views, settingView{Key: key, Value: value, Source: source})
	}

	if asJSON {
		return writeJSON(w, views)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, v := range views {
		fmt.Fprintf(tw, "%s\t%s\t(%s)\n", v.Key, v.Value, v.Source)
	}
	return tw.Flush()
}

// statusLabel renders a file status for display, e.g. "Type Changed".
func statusLabel(s git.FileStatus) string {
	return cases.Title(language.English).String(string(s))
}

func shortSHA(sha string) string {
	if len(sha) > shortSHALen {
		return sha[:shortSHALen]
	}
	return sha
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

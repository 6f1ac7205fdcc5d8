package stash

import "github.com/randalmurphal/devstash/git"

// FilesKind is the load state of an entry's file changes.
type FilesKind int

const (
	FilesNotLoaded FilesKind = iota
	FilesLoading
	FilesLoaded
	FilesLoadFailed
)

func (k FilesKind) String() string {
	switch k {
	case FilesNotLoaded:
		return "not loaded"
	case FilesLoading:
		return "loading"
	case FilesLoaded:
		return "loaded"
	case FilesLoadFailed:
		return "load failed"
	default:
		return "unknown"
	}
}

// FileChanges is the lazily loaded payload of an Entry.
type FileChanges struct {
	Kind    FilesKind
	Changes []git.FileChange // Set when Kind is FilesLoaded
	Err     error            // Set when Kind is FilesLoadFailed
}

// Entry is a devstash-owned stash entry as seen at listing time.
type Entry struct {
	// Name is the positional ref, e.g. "stash@{0}". It shifts on every
	// push, pop or drop, by anyone; do not hold on to it.
	Name string

	// SHA is the stash commit. It identifies the entry for its lifetime.
	SHA string

	// Branch is the branch recorded in the ownership marker.
	Branch string

	Files FileChanges
}

// Listing is the result of reading the stash stack.
type Listing struct {
	// Entries holds the devstash-owned entries, newest first.
	Entries []*Entry

	// Total counts every entry on the stack, owned or not.
	Total int
}

// Foreign returns the number of entries not owned by devstash.
func (l *Listing) Foreign() int {
	return l.Total - len(l.Entries)
}

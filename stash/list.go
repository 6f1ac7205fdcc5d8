package stash

import (
	"context"
	"strings"

	"github.com/randalmurphal/devstash/git"
)

// Reflog protocol. These bytes are part of git's output contract and must
// not change: records end in NUL (-z) and fields are split on the ASCII
// unit separator, which cannot appear in a ref name, a hash or a one-line
// subject.
const (
	stashRef         = "refs/stash"
	recordTerminator = "\x00"
	fieldDelimiter   = "\x1f"
	reflogFormat     = "--pretty=%gD%x1F%H%x1F%gs"

	// git exits 128 when refs/stash does not exist, i.e. nothing was ever stashed.
	noStashExitCode = 128
)

// List reads the stash stack and returns the devstash-owned entries,
// newest first, together with the total number of entries.
func (s *Store) List(ctx context.Context) (*Listing, error) {
	res, err := s.git.Exec(ctx, "list stashes",
		git.ExecOptions{SuccessExitCodes: []int{0, noStashExitCode}},
		"log", "-g", "-z", reflogFormat, stashRef)
	if err != nil {
		return nil, err
	}

	if res.ExitCode == noStashExitCode {
		return &Listing{}, nil
	}

	listing, discarded := parseReflog(res.Stdout)
	if discarded > 0 {
		s.logger.Debug("discarded malformed stash reflog records", "count", discarded)
	}
	return listing, nil
}

// ParseReflog parses the output of
// `git log -g -z --pretty=%gD%x1F%H%x1F%gs refs/stash`.
//
// Splitting on NUL yields N raw records, the last being the empty token
// after the final terminator, so Total is N-1. Records that do not have
// exactly three fields are discarded.
func ParseReflog(stdout string) *Listing {
	listing, _ := parseReflog(stdout)
	return listing
}

func parseReflog(stdout string) (*Listing, int) {
	records := strings.Split(stdout, recordTerminator)
	listing := &Listing{Total: len(records) - 1}

	discarded := 0
	for i, record := range records {
		fields := strings.Split(record, fieldDelimiter)
		if len(fields) != 3 {
			// The boundary token after the last terminator is expected.
			if !(i == len(records)-1 && record == "") {
				discarded++
			}
			continue
		}

		name, sha, subject := fields[0], fields[1], fields[2]
		branch, ok := ParseMarker(subject)
		if !ok {
			continue
		}

		listing.Entries = append(listing.Entries, &Entry{
			Name:   name,
			SHA:    sha,
			Branch: branch,
			Files:  FileChanges{Kind: FilesNotLoaded},
		})
	}

	return listing, discarded
}

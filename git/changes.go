package git

import (
	"fmt"
	"strings"
)

// FileStatus describes how a file changed.
type FileStatus string

const (
	StatusAdded       FileStatus = "added"
	StatusModified    FileStatus = "modified"
	StatusDeleted     FileStatus = "deleted"
	StatusRenamed     FileStatus = "renamed"
	StatusCopied      FileStatus = "copied"
	StatusTypeChanged FileStatus = "type changed"
	StatusUnmerged    FileStatus = "unmerged"
	StatusUnknown     FileStatus = "unknown"
)

// FileChange is one entry of a name-status diff.
type FileChange struct {
	Path    string     // Path after the change
	OldPath string     // Source path for renames and copies
	Status  FileStatus // Kind of change
	Score   string     // Similarity score for renames and copies (e.g. "100")
}

func statusFromCode(code byte) FileStatus {
	switch code {
	case 'A':
		return StatusAdded
	case 'M':
		return StatusModified
	case 'D':
		return StatusDeleted
	case 'R':
		return StatusRenamed
	case 'C':
		return StatusCopied
	case 'T':
		return StatusTypeChanged
	case 'U':
		return StatusUnmerged
	default:
		return StatusUnknown
	}
}

// ParseChangedFiles parses `git diff --name-status -z` style output.
// Each record is a status token followed by one path, or two paths for
// renames and copies, all NUL-terminated.
func ParseChangedFiles(raw string) ([]FileChange, error) {
	tokens := strings.Split(raw, "\x00")
	// The final terminator leaves an empty trailing token.
	if n := len(tokens); n > 0 && tokens[n-1] == "" {
		tokens = tokens[:n-1]
	}

	var changes []FileChange
	for i := 0; i < len(tokens); {
		code := tokens[i]
		if code == "" {
			return nil, fmt.Errorf("%w: empty status at token %d", ErrMalformedOutput, i)
		}
		i++

		change := FileChange{Status: statusFromCode(code[0])}
		if change.Status == StatusRenamed || change.Status == StatusCopied {
			if i+1 >= len(tokens) {
				return nil, fmt.Errorf("%w: %s record missing paths", ErrMalformedOutput, code)
			}
			change.Score = code[1:]
			change.OldPath = tokens[i]
			change.Path = tokens[i+1]
			i += 2
		} else {
			if i >= len(tokens) {
				return nil, fmt.Errorf("%w: %s record missing path", ErrMalformedOutput, code)
			}
			change.Path = tokens[i]
			i++
		}
		changes = append(changes, change)
	}
	return changes, nil
}

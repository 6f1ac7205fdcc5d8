package stash

import (
	"context"
	"fmt"
	"strings"

	"github.com/randalmurphal/devstash/git"
	"github.com/randalmurphal/devstash/notify"
)

// errorLinePrefix marks a line of git stderr that reports a real failure.
const errorLinePrefix = "error: "

// Create stashes all local changes, untracked files included, as a
// devstash-owned entry for branch. The entry is not returned; use
// FindForBranch to locate it.
//
// git exits 1 on some versions after printing only warnings; that case is
// logged and treated as success. Exit 1 with an "error: " line on stderr is
// a failure wrapping ErrStashFailed.
func (s *Store) Create(ctx context.Context, branch string) error {
	if branch == "" {
		return ErrEmptyBranch
	}

	staged, err := s.git.StageUntracked(ctx)
	if err != nil {
		return fmt.Errorf("stage untracked files: %w", err)
	}
	if len(staged) > 0 {
		s.logger.Debug("staged untracked files for stash", "count", len(staged))
	}

	args := []string{"stash", "push", "-m", BuildMarkerMessage(branch)}
	res, err := s.git.Exec(ctx, "create stash", git.ExecOptions{SuccessExitCodes: []int{0, 1}}, args...)
	if err != nil {
		s.emitFailure(ctx, "create stash", &Entry{Branch: branch}, err)
		return err
	}

	if res.ExitCode == 1 {
		if line, ok := firstErrorLine(res.Stderr); ok {
			gitErr := git.NewResultError("create stash", s.git.Binary(), args, res, ErrStashFailed)
			s.logger.Warn("stash push reported an error", "branch", branch, "error_line", line)
			s.emitFailure(ctx, "create stash", &Entry{Branch: branch}, gitErr)
			return gitErr
		}
		s.logger.Info("stash push exited 1 without an error line; treating as success",
			"branch", branch,
			"stderr", strings.TrimSpace(res.Stderr),
		)
	}

	event := notify.NewEvent(notify.EventStashCreated, "stash created")
	event.Branch = branch
	s.emit(ctx, event)
	return nil
}

// Drop removes the devstash-owned entry with the given SHA.
// Dropping an entry that does not exist, or is not devstash-owned, is a no-op.
func (s *Store) Drop(ctx context.Context, sha string) error {
	entry, err := s.FindByHash(ctx, sha)
	if err != nil {
		return err
	}
	if entry == nil {
		s.logger.Debug("no devstash entry to drop", "sha", sha)
		return nil
	}

	if _, err := s.git.Exec(ctx, "drop stash", git.ExecOptions{}, "stash", "drop", entry.Name); err != nil {
		s.emitFailure(ctx, "drop stash", entry, err)
		return err
	}

	s.emitEntry(ctx, notify.EventStashDropped, entry, "stash dropped")
	return nil
}

// Pop applies the devstash-owned entry with the given SHA and removes it
// from the stack. A missing entry is a no-op.
//
// Exit 1 with output on stderr means the changes were not applied; the
// entry stays on the stack and the returned error wraps ErrPopFailed.
// Exit 1 with empty stderr means git applied the changes, possibly leaving
// conflicts in the working tree, but kept the entry, so Pop finishes the
// job with an explicit Drop.
func (s *Store) Pop(ctx context.Context, sha string) error {
	entry, err := s.FindByHash(ctx, sha)
	if err != nil {
		return err
	}
	if entry == nil {
		s.logger.Debug("no devstash entry to pop", "sha", sha)
		return nil
	}

	args := []string{"stash", "pop", "--quiet", entry.Name}
	res, err := s.git.Exec(ctx, "pop stash", git.ExecOptions{
		SuccessExitCodes: []int{0, 1},
		ExpectedErrors:   []git.ErrorKind{git.KindMergeConflict},
	}, args...)
	if err != nil {
		s.emitFailure(ctx, "pop stash", entry, err)
		return err
	}

	if res.ExitCode != 0 {
		if !quietExitOne(res) {
			gitErr := git.NewResultError("pop stash", s.git.Binary(), args, res, failureCause(ErrPopFailed, res))
			s.emitFailure(ctx, "pop stash", entry, gitErr)
			return gitErr
		}

		s.logger.Info("stash pop exited 1 without stderr; dropping entry",
			"sha", entry.SHA,
			"ref", entry.Name,
		)
		if err := s.Drop(ctx, entry.SHA); err != nil {
			return fmt.Errorf("drop after pop: %w", err)
		}
	}

	s.emitEntry(ctx, notify.EventStashPopped, entry, "stash popped")
	return nil
}

// Apply applies the devstash-owned entry with the given SHA and leaves it
// on the stack. A missing entry is a no-op. Exit 1 with output on stderr
// returns an error wrapping ErrApplyFailed.
func (s *Store) Apply(ctx context.Context, sha string) error {
	entry, err := s.FindByHash(ctx, sha)
	if err != nil {
		return err
	}
	if entry == nil {
		s.logger.Debug("no devstash entry to apply", "sha", sha)
		return nil
	}

	args := []string{"stash", "apply", "--quiet", entry.Name}
	res, err := s.git.Exec(ctx, "apply stash", git.ExecOptions{
		SuccessExitCodes: []int{0, 1},
		ExpectedErrors:   []git.ErrorKind{git.KindMergeConflict},
	}, args...)
	if err != nil {
		s.emitFailure(ctx, "apply stash", entry, err)
		return err
	}

	if res.ExitCode != 0 {
		if !quietExitOne(res) {
			gitErr := git.NewResultError("apply stash", s.git.Binary(), args, res, failureCause(ErrApplyFailed, res))
			s.emitFailure(ctx, "apply stash", entry, gitErr)
			return gitErr
		}
		s.logger.Info("stash apply exited 1 without stderr; treating as success", "sha", entry.SHA)
	}

	s.emitEntry(ctx, notify.EventStashApplied, entry, "stash applied")
	return nil
}

// LoadChanges fills entry.Files with the files the stash touches,
// untracked files included. On failure entry.Files records the error.
func (s *Store) LoadChanges(ctx context.Context, entry *Entry) error {
	entry.Files = FileChanges{Kind: FilesLoading}

	res, err := s.git.Exec(ctx, "show stash", git.ExecOptions{},
		"stash", "show", "--name-status", "-z", "--include-untracked", entry.SHA)
	if err != nil {
		entry.Files = FileChanges{Kind: FilesLoadFailed, Err: err}
		return err
	}

	changes, err := git.ParseChangedFiles(res.Stdout)
	if err != nil {
		err = fmt.Errorf("parse stash changes for %s: %w", entry.SHA, err)
		entry.Files = FileChanges{Kind: FilesLoadFailed, Err: err}
		return err
	}

	entry.Files = FileChanges{Kind: FilesLoaded, Changes: changes}
	return nil
}

// firstErrorLine returns the first stderr line that starts with "error: ".
func firstErrorLine(stderr string) (string, bool) {
	for _, line := range strings.Split(stderr, "\n") {
		if strings.HasPrefix(line, errorLinePrefix) {
			return line, true
		}
	}
	return "", false
}

// quietExitOne reports the ambiguous outcome where git exits 1 without
// writing anything to stderr. Whitespace-only stderr counts as output. A quiet pop that leaves conflicts in the working tree
// ends this way.
func quietExitOne(res *git.Result) bool {
	return res.ExitCode == 1 && res.Stderr == ""
}

// failureCause wraps sentinel together with the recognized kind, if any.
func failureCause(sentinel error, res *git.Result) error {
	if kindErr := res.Kind.Err(); kindErr != nil {
		return fmt.Errorf("%w: %w", sentinel, kindErr)
	}
	return sentinel
}

// Package git runs the git CLI for a repository and interprets its output.
//
// Core types:
//   - Context: repository handle that runs git through a CommandRunner
//   - CommandRunner: executes commands and reports exit code, stdout and stderr
//     (ExecRunner for real processes, MockRunner and SequentialMockRunner for tests)
//   - ExecOptions: accepted exit codes and expected failure kinds for Exec
//   - Error: a rejected git command with its arguments and raw output
//   - FileChange: one entry of a name-status diff (see ParseChangedFiles)
//
// Example usage:
//
//	g, err := git.NewContext("/path/to/repo")
//	res, err := g.Exec(ctx, "list stashes",
//	    git.ExecOptions{SuccessExitCodes: []int{0, 128}},
//	    "log", "-g", "-z", "refs/stash")
package git

// Package stash manages devstash-owned entries on git's stash stack.
//
// devstash tags every stash it creates with a marker in the stash message
// (see BuildMarkerMessage) and ignores entries created by anything else,
// while still counting them. Entries are identified by their commit SHA,
// which is stable; positional names such as "stash@{2}" shift whenever
// anyone pushes, pops or drops, so every operation re-lists the stack and
// resolves the SHA to its current position before acting.
//
// A Store holds no state between calls and takes no locks. Callers that
// issue operations concurrently against one repository must serialize them.
//
// Example usage:
//
//	gitCtx, _ := git.NewContext("/path/to/repo")
//	store := stash.NewStore(gitCtx)
//
//	if err := store.Create(ctx, "feature-x"); err != nil { ... }
//	entry, _ := store.FindForBranch(ctx, "feature-x")
//	err := store.Pop(ctx, entry.SHA)
package stash

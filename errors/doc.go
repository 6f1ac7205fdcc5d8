// Package errors turns git and stash failures into user-facing CLI errors.
//
// Core types:
//   - CLIError: wraps an error with a message, suggestion, and details
//   - ErrorMessenger: customizes the wording of each message
//
// WrapStashError recognizes the failures a stash command can hit:
//   - not inside a git repository
//   - git executable missing
//   - merge conflicts while popping or applying
//   - local edits that a pop or apply would overwrite
//   - git refusing to create a stash
//   - git refusing a pop or apply for any other reason
//
// Anything unrecognized is returned unchanged. CLIError keeps the original
// error as its cause, so errors.Is against git and stash sentinels still works:
//
//	if err := store.Pop(ctx, sha); err != nil {
//	    err = errors.WrapStashError(err)
//	    if errors.IsConflictError(err) {
//	        // resolve conflicts, then drop the entry
//	    }
//	    return err
//	}
package errors

package git

import "context"

// contextKey is a private type for context keys to avoid collisions.
type contextKey struct{ name string }

var gitContextKey = &contextKey{"git-context"}

// ContextWithGit adds a git Context to a context.Context.
//
// Example:
//
//	gitCtx, _ := git.NewContext(".")
//	ctx := git.ContextWithGit(context.Background(), gitCtx)
func ContextWithGit(ctx context.Context, gc *Context) context.Context {
	return context.WithValue(ctx, gitContextKey, gc)
}

// GitFromContext retrieves a git Context from a context.Context.
// Returns nil if no git Context is present.
func GitFromContext(ctx context.Context) *Context {
	if gc, ok := ctx.Value(gitContextKey).(*Context); ok {
		return gc
	}
	return nil
}

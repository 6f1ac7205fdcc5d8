package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/devstash/config"
	clierrors "github.com/randalmurphal/devstash/errors"
	"github.com/randalmurphal/devstash/stash"
)

func listCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List devstash entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			listing, err := store.List(cmd.Context())
			if err != nil {
				return a.wrap(err)
			}

			if a.opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), newListingView(listing))
			}
			return printListing(cmd.OutOrStdout(), listing)
		},
	}
}

func findCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "find <branch>",
		Short: "Show the newest entry for a branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			entry, err := store.FindForBranch(cmd.Context(), args[0])
			if err != nil {
				return a.wrap(err)
			}
			if entry == nil {
				return clierrors.NewEntryNotFoundError("branch " + args[0])
			}
			return printEntry(cmd.OutOrStdout(), entry, a.opts.jsonOutput)
		},
	}
}

func createCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create [branch]",
		Short: "Stash all local changes, untracked files included",
		Long: `Stash all local changes, untracked files included, for a branch.
Without an argument the current branch is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var branch string
			if len(args) == 1 {
				branch = args[0]
			} else if branch, err = store.Git().CurrentBranch(ctx); err != nil {
				return a.wrap(err)
			}

			clean, err := store.Git().IsClean(ctx)
			if err != nil {
				return a.wrap(err)
			}
			if clean {
				fmt.Fprintln(cmd.OutOrStdout(), "No local changes to stash.")
				return nil
			}

			if err := store.Create(ctx, branch); err != nil {
				return a.wrap(err)
			}

			entry, err := store.FindForBranch(ctx, branch)
			if err != nil {
				return a.wrap(err)
			}
			if entry == nil {
				return clierrors.NewEntryNotFoundError("branch " + branch)
			}
			return printEntry(cmd.OutOrStdout(), entry, a.opts.jsonOutput)
		},
	}
}

// entryAction runs op against the entry named by a SHA or branch argument.
type entryAction func(store *stash.Store, ctx context.Context, sha string) error

func entryCommand(a *app, use, short, verb string, action entryAction) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <sha|branch>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			entry, err := resolveEntry(ctx, store, args[0])
			if err != nil {
				return a.wrap(err)
			}
			if entry == nil {
				return clierrors.NewEntryNotFoundError(args[0])
			}

			if err := action(store, ctx, entry.SHA); err != nil {
				return a.wrap(err)
			}

			if a.opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), newEntryView(entry))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", verb, shortSHA(entry.SHA), entry.Branch)
			return nil
		},
	}
}

func popCommand(a *app) *cobra.Command {
	return entryCommand(a, "pop", "Apply an entry and remove it from the stack", "Popped", (*stash.Store).Pop)
}

func dropCommand(a *app) *cobra.Command {
	return entryCommand(a, "drop", "Remove an entry without applying it", "Dropped", (*stash.Store).Drop)
}

func applyCommand(a *app) *cobra.Command {
	return entryCommand(a, "apply", "Apply an entry and keep it on the stack", "Applied", (*stash.Store).Apply)
}

func filesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "files <sha|branch>",
		Short: "List the files an entry touches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			entry, err := resolveEntry(ctx, store, args[0])
			if err != nil {
				return a.wrap(err)
			}
			if entry == nil {
				return clierrors.NewEntryNotFoundError(args[0])
			}

			if err := store.LoadChanges(ctx, entry); err != nil {
				return a.wrap(err)
			}

			if a.opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), newChangesView(entry))
			}
			return printChanges(cmd.OutOrStdout(), entry)
		},
	}
}

// resolveEntry treats ref as a stash SHA first, then as a branch name.
func resolveEntry(ctx context.Context, store *stash.Store, ref string) (*stash.Entry, error) {
	entry, err := store.FindByHash(ctx, ref)
	if err != nil || entry != nil {
		return entry, err
	}
	return store.FindForBranch(ctx, ref)
}

func configCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change devstash settings",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get [key]",
			Short: "Show resolved settings and where they came from",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.load(cmd.ErrOrStderr()); err != nil {
					return err
				}
				resolved := a.resolver.ResolveWithFlags(a.opts.configFlags())

				keys := config.Keys()
				if len(args) == 1 {
					if !config.IsKnownKey(args[0]) {
						return config.ValidateValue(args[0], "")
					}
					keys = []string{args[0]}
				}
				return printConfig(cmd.OutOrStdout(), resolved, keys, a.opts.jsonOutput)
			},
		},
		&cobra.Command{
			Use:   "set <global|local> <key> <value>",
			Short: "Write a setting to the global or local config file",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				return writeSetting(cmd.OutOrStdout(), a, args[0], func(r *config.Resolver, scope config.Scope) error {
					return r.Set(scope, args[1], args[2])
				})
			},
		},
		&cobra.Command{
			Use:   "unset <global|local> <key>",
			Short: "Remove a setting from the global or local config file",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return writeSetting(cmd.OutOrStdout(), a, args[0], func(r *config.Resolver, scope config.Scope) error {
					return r.Unset(scope, args[1])
				})
			},
		},
	)
	return cmd
}

func writeSetting(w io.Writer, a *app, scopeArg string, write func(*config.Resolver, config.Scope) error) error {
	scope, err := config.ParseScope(scopeArg)
	if err != nil {
		return err
	}

	resolver := config.NewResolver(a.opts.repo)
	if err := write(resolver, scope); err != nil {
		return err
	}

	path := resolver.GlobalPath()
	if scope == config.ScopeLocal {
		path = resolver.LocalPath()
	}
	fmt.Fprintf(w, "Updated %s\n", path)
	return nil
}

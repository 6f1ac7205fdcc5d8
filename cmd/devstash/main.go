// Command devstash saves and restores per-branch work-in-progress on the
// git stash stack, leaving entries made by other tools alone.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is the current devstash CLI version.
var Version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "devstash",
		Short: "Per-branch work-in-progress on the git stash stack",
		Long: `devstash stashes local changes, untracked files included, under a marker
naming the branch they belong to. Entries are addressed by commit SHA, so
they stay reachable while other tools push and pop their own stashes.

Examples:
  devstash create feature-x      # stash everything for feature-x
  devstash list                  # show devstash entries, newest first
  devstash pop feature-x         # restore the newest entry for feature-x
  devstash files 1a2b3c4d        # list the files an entry touches`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	bindFlags(root.PersistentFlags(), &a.opts)

	root.AddCommand(
		listCommand(a),
		findCommand(a),
		createCommand(a),
		popCommand(a),
		dropCommand(a),
		applyCommand(a),
		filesCommand(a),
		configCommand(a),
	)
	return root
}

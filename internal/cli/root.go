// Package cli provides the command-line interface for track.
package cli

import (
	"github.com/spf13/cobra"

	"track/internal/app"
)

// Command group IDs.
const (
	groupTask  = "task"
	groupItems = "items"
	groupGit   = "git"
)

// NewRootCommand creates the root command for track.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "track",
		Short: "Personal developer task tracker",
		Long: `track keeps your tasks, todos, notes and links in one place and
binds them to git worktrees across any number of repositories.
One task spans N repos; each todo can get its own isolated worktree,
and completing the todo merges it back.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
	}

	root.AddGroup(
		&cobra.Group{ID: groupTask, Title: "Task Commands:"},
		&cobra.Group{ID: groupItems, Title: "Todo, Link & Note Commands:"},
		&cobra.Group{ID: groupGit, Title: "Repository & Worktree Commands:"},
	)

	root.AddCommand(
		newNewCommand(c),
		newListCommand(c),
		newSwitchCommand(c),
		newArchiveCommand(c),
		newDescribeCommand(c),
		newTicketCommand(c),
		newExportCommand(c),

		newTodoCommand(c),
		newLinkCommand(c),
		newScrapCommand(c),

		newRepoCommand(c),
		newWorktreeCommand(c),
		newSyncCommand(c),

		newServeCommand(c),
	)

	return root
}

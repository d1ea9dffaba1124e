package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"track/internal/app"
	"track/internal/usecase"
)

// newWorktreeCommand creates the worktree command group.
func newWorktreeCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "worktree",
		Aliases: []string{"wt"},
		Short:   "Manage a task's worktrees",
		GroupID: groupGit,
	}
	cmd.AddCommand(
		newWorktreeAddCommand(c),
		newWorktreeListCommand(c),
		newWorktreeRemoveCommand(c),
	)
	return cmd
}

func newWorktreeAddCommand(c *app.Container) *cobra.Command {
	var opts struct {
		TaskRef string
		Branch  string
		Todo    int64
		Base    bool
	}

	cmd := &cobra.Command{
		Use:   "add <repo-path>",
		Short: "Create a worktree for a task",
		Long: `Create a worktree of a repository for a task. The branch name is
derived from the task's ticket and the linked todo unless --branch
is given; the worktree lands next to the repository under
<repo>-worktrees/<branch>.

Examples:
  track worktree add ~/src/api --base
  track worktree add ~/src/api --todo 2
  track worktree add ~/src/api --branch spike-cache`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.AddWorktreeUseCase().Execute(cmd.Context(), usecase.AddWorktreeInput{
				Ref:       opts.TaskRef,
				RepoPath:  args[0],
				Branch:    opts.Branch,
				TodoIndex: opts.Todo,
				Base:      opts.Base,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created worktree %s on branch %s\n", out.Worktree.Path, out.Worktree.Branch)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.TaskRef, "task", "t", "", "task ID or t:<ticket> (default: active task)")
	cmd.Flags().StringVarP(&opts.Branch, "branch", "b", "", "explicit branch name")
	cmd.Flags().Int64Var(&opts.Todo, "todo", 0, "todo index to link the worktree to")
	cmd.Flags().BoolVar(&opts.Base, "base", false, "mark as the task's base worktree (merge target)")
	return cmd
}

func newWorktreeListCommand(c *app.Container) *cobra.Command {
	var taskRef string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List worktrees",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ListWorktreesUseCase().Execute(cmd.Context(), usecase.ListWorktreesInput{Ref: taskRef})
			if err != nil {
				return err
			}
			if len(out.Worktrees) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No worktrees.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tBRANCH\tPATH\tTODO\tBASE")
			for _, wt := range out.Worktrees {
				todo := ""
				if wt.TodoID != 0 {
					todo = strconv.FormatInt(wt.TodoID, 10)
				}
				base := ""
				if wt.IsBase {
					base = activeStyle.Render("yes")
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", wt.ID, wt.Branch, wt.Path, todo, base)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&taskRef, "task", "t", "", "task ID or t:<ticket> (default: active task)")
	return cmd
}

func newWorktreeRemoveCommand(c *app.Container) *cobra.Command {
	var keepFiles bool

	cmd := &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a worktree without merging it",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid worktree ID %q", args[0])
			}
			out, err := c.RemoveWorktreeUseCase().Execute(cmd.Context(), usecase.RemoveWorktreeInput{
				WorktreeID: id,
				KeepFiles:  keepFiles,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed worktree %s\n", out.Worktree.Path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&keepFiles, "keep-files", false, "drop the record but leave the directory on disk")
	return cmd
}

// newSyncCommand creates the sync command.
func newSyncCommand(c *app.Container) *cobra.Command {
	var taskRef string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Converge a task's repositories onto its branch",
		Long: `Converge every registered repository of a task onto its canonical
branch and create the worktrees its todos requested. Sync is
idempotent: repos already on the branch and todos that already have
a worktree are left alone.`,
		GroupID: groupGit,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.SyncTaskUseCase().Execute(cmd.Context(), usecase.SyncTaskInput{Ref: taskRef})
			if err != nil {
				return err
			}
			for _, repo := range out.Repos {
				mark := activeStyle.Render("✓")
				if !repo.Synced {
					mark = warnStyle.Render("✗")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", mark, repo.Path, repo.Note)
			}
			for _, warning := range out.Warnings {
				fmt.Fprintln(cmd.ErrOrStderr(), warnStyle.Render("warning: "+warning))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Synced %d repo(s) onto %s, created %d worktree(s)\n",
				out.ReposSynced, out.Branch, out.WorktreesCreated)
			return nil
		},
	}

	cmd.Flags().StringVarP(&taskRef, "task", "t", "", "task ID or t:<ticket> (default: active task)")
	return cmd
}

package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"track/internal/app"
	"track/internal/usecase"
)

// newRepoCommand creates the repo command group.
func newRepoCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "repo",
		Short:   "Manage a task's repositories",
		GroupID: groupGit,
	}
	cmd.AddCommand(
		newRepoAddCommand(c),
		newRepoListCommand(c),
		newRepoRemoveCommand(c),
	)
	return cmd
}

func newRepoAddCommand(c *app.Container) *cobra.Command {
	var taskRef, baseBranch, baseCommit string

	cmd := &cobra.Command{
		Use:   "add <path>",
		Short: "Register a repository clone with a task",
		Long: `Register a repository clone with a task. The base branch or
commit, when given, is where 'track sync' forks the task branch from.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.AddRepoUseCase().Execute(cmd.Context(), usecase.AddRepoInput{
				Ref:        taskRef,
				Path:       args[0],
				BaseBranch: baseBranch,
				BaseCommit: baseCommit,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s\n", out.Repo.Path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&taskRef, "task", "t", "", "task ID or t:<ticket> (default: active task)")
	cmd.Flags().StringVarP(&baseBranch, "base", "b", "", "branch the task branch forks from")
	cmd.Flags().StringVar(&baseCommit, "commit", "", "commit the task branch forks from")
	return cmd
}

func newRepoListCommand(c *app.Container) *cobra.Command {
	var taskRef string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List repositories",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ListReposUseCase().Execute(cmd.Context(), usecase.ListReposInput{Ref: taskRef})
			if err != nil {
				return err
			}
			if len(out.Repos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No repositories. Register one with 'track repo add'.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PATH\tBASE BRANCH\tBASE COMMIT")
			for _, repo := range out.Repos {
				commit := repo.BaseCommit
				if len(commit) > 12 {
					commit = commit[:12]
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", repo.Path, repo.BaseBranch, commit)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&taskRef, "task", "t", "", "task ID or t:<ticket> (default: active task)")
	return cmd
}

func newRepoRemoveCommand(c *app.Container) *cobra.Command {
	var taskRef string

	cmd := &cobra.Command{
		Use:     "remove <path>",
		Aliases: []string{"rm"},
		Short:   "Deregister a repository (the clone is untouched)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.RemoveRepoUseCase().Execute(cmd.Context(), usecase.RemoveRepoInput{
				Ref:  taskRef,
				Path: args[0],
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deregistered %s\n", out.Repo.Path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&taskRef, "task", "t", "", "task ID or t:<ticket> (default: active task)")
	return cmd
}

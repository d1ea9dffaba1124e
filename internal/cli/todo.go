package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"track/internal/app"
	"track/internal/domain"
	"track/internal/usecase"
)

// newTodoCommand creates the todo command group.
func newTodoCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "todo",
		Short:   "Manage a task's todos",
		GroupID: groupItems,
	}
	cmd.AddCommand(
		newTodoAddCommand(c),
		newTodoListCommand(c),
		newTodoDoneCommand(c),
		newTodoStatusCommand(c),
	)
	return cmd
}

func newTodoAddCommand(c *app.Container) *cobra.Command {
	var taskRef string
	var worktree bool

	cmd := &cobra.Command{
		Use:   "add <content>",
		Short: "Add a todo",
		Long: `Add a todo to a task. With --worktree the next 'track sync'
creates a dedicated worktree for it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.AddTodoUseCase().Execute(cmd.Context(), usecase.AddTodoInput{
				Ref:      taskRef,
				Content:  args[0],
				Worktree: worktree,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added todo %d: %s\n", out.Todo.TaskIndex, out.Todo.Content)
			return nil
		},
	}

	cmd.Flags().StringVarP(&taskRef, "task", "t", "", "task ID or t:<ticket> (default: active task)")
	cmd.Flags().BoolVarP(&worktree, "worktree", "w", false, "request a dedicated worktree at next sync")
	return cmd
}

func newTodoListCommand(c *app.Container) *cobra.Command {
	var taskRef string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List todos",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ListTodosUseCase().Execute(cmd.Context(), usecase.ListTodosInput{Ref: taskRef})
			if err != nil {
				return err
			}
			if len(out.Todos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No todos.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "IDX\tSTATUS\tWT\tCONTENT")
			for _, todo := range out.Todos {
				wt := ""
				if todo.WorktreeRequested {
					wt = "yes"
				}
				content := todo.Content
				if !todo.Open() {
					content = doneStyle.Render(content)
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", todo.TaskIndex, todo.Status, wt, content)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&taskRef, "task", "t", "", "task ID or t:<ticket> (default: active task)")
	return cmd
}

func newTodoDoneCommand(c *app.Container) *cobra.Command {
	var taskRef string

	cmd := &cobra.Command{
		Use:   "done <index>",
		Short: "Complete a todo, merging its worktree",
		Long: `Complete a todo. If the todo has a worktree its branch is merged
into the task's base worktree (or, without one, into the repository
the worktree came from) and the worktree is removed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid todo index %q", args[0])
			}
			out, err := c.CompleteTodoUseCase().Execute(cmd.Context(), usecase.CompleteTodoInput{
				Ref:   taskRef,
				Index: index,
			})
			if err != nil {
				return err
			}
			if out.HadWorktree {
				fmt.Fprintf(cmd.OutOrStdout(), "Merged %s into %s\n", out.MergedBranch, out.MergedInto)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Done: %s\n", out.Todo.Content)
			return nil
		},
	}

	cmd.Flags().StringVarP(&taskRef, "task", "t", "", "task ID or t:<ticket> (default: active task)")
	return cmd
}

func newTodoStatusCommand(c *app.Container) *cobra.Command {
	var taskRef string

	cmd := &cobra.Command{
		Use:   "status <index> <pending|done|cancelled>",
		Short: "Set a todo's status without touching its worktree",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid todo index %q", args[0])
			}
			out, err := c.SetTodoStatusUseCase().Execute(cmd.Context(), usecase.SetTodoStatusInput{
				Ref:    taskRef,
				Index:  index,
				Status: domain.TodoStatus(args[1]),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Todo %d is now %s\n", out.Todo.TaskIndex, out.Todo.Status)
			return nil
		},
	}

	cmd.Flags().StringVarP(&taskRef, "task", "t", "", "task ID or t:<ticket> (default: active task)")
	return cmd
}

package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"track/internal/app"
	"track/internal/usecase"
)

// newNewCommand creates the new command for creating tasks.
func newNewCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Description string
		Ticket      string
		TicketURL   string
		NoSwitch    bool
	}

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a new task",
		Long: `Create a new task and make it the active one.

Examples:
  track new "Fix login flow"
  track new "Auth refactoring" --ticket PROJ-123
  track new "Background cleanup" --no-switch`,
		GroupID: groupTask,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.NewTaskUseCase().Execute(cmd.Context(), usecase.NewTaskInput{
				Name:        args[0],
				Description: opts.Description,
				TicketID:    opts.Ticket,
				TicketURL:   opts.TicketURL,
				NoSwitch:    opts.NoSwitch,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task %d: %s\n", out.Task.ID, out.Task.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Description, "description", "d", "", "task description")
	cmd.Flags().StringVar(&opts.Ticket, "ticket", "", "external ticket ID (e.g. PROJ-123 or owner/repo/42)")
	cmd.Flags().StringVar(&opts.TicketURL, "ticket-url", "", "ticket URL")
	cmd.Flags().BoolVar(&opts.NoSwitch, "no-switch", false, "do not make the new task active")
	return cmd
}

// newListCommand creates the list command for listing tasks.
func newListCommand(c *app.Container) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		GroupID: groupTask,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ListTasksUseCase().Execute(cmd.Context(), usecase.ListTasksInput{IncludeArchived: all})
			if err != nil {
				return err
			}
			if len(out.Tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks. Create one with 'track new'.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, " \tID\tNAME\tTICKET\tSTATUS\tCREATED")
			for _, task := range out.Tasks {
				marker := " "
				name := task.Name
				if task.ID == out.CurrentID {
					marker = activeStyle.Render("*")
					name = activeStyle.Render(name)
				}
				if task.IsArchived() {
					name = faintStyle.Render(task.Name)
				}
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n",
					marker, task.ID, name, task.TicketID, task.Status,
					task.Created.Local().Format(time.DateOnly))
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "include archived tasks")
	return cmd
}

// newSwitchCommand creates the switch command for changing the active task.
func newSwitchCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "switch <task>",
		Short: "Switch the active task",
		Long: `Switch the active task. Tasks are referenced by ID or by ticket
with a t: prefix, e.g. 'track switch t:PROJ-123'.`,
		GroupID: groupTask,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.SwitchTaskUseCase().Execute(cmd.Context(), usecase.SwitchTaskInput{Ref: args[0]})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Switched to task %d: %s\n", out.Task.ID, out.Task.Name)
			return nil
		},
	}
}

// newArchiveCommand creates the archive command.
func newArchiveCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "archive [task]",
		Short:   "Archive a task",
		GroupID: groupTask,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ref string
			if len(args) > 0 {
				ref = args[0]
			}
			out, err := c.ArchiveTaskUseCase().Execute(cmd.Context(), usecase.ArchiveTaskInput{Ref: ref})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Archived task %d: %s\n", out.Task.ID, out.Task.Name)
			return nil
		},
	}
}

// newDescribeCommand creates the describe command.
func newDescribeCommand(c *app.Container) *cobra.Command {
	var taskRef string

	cmd := &cobra.Command{
		Use:     "describe <description>",
		Short:   "Set a task's description",
		GroupID: groupTask,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := c.SetDescriptionUseCase().Execute(cmd.Context(), usecase.SetDescriptionInput{
				Ref:         taskRef,
				Description: strings.Join(args, " "),
			})
			return err
		},
	}

	cmd.Flags().StringVarP(&taskRef, "task", "t", "", "task ID or t:<ticket> (default: active task)")
	return cmd
}

// newTicketCommand creates the ticket command for linking tickets.
func newTicketCommand(c *app.Container) *cobra.Command {
	var taskRef, url string

	cmd := &cobra.Command{
		Use:     "ticket <ticket-id>",
		Short:   "Link an external ticket to a task",
		GroupID: groupTask,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.LinkTicketUseCase().Execute(cmd.Context(), usecase.LinkTicketInput{
				Ref:       taskRef,
				TicketID:  args[0],
				TicketURL: url,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Linked %s to task %d\n", out.Task.TicketID, out.Task.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&taskRef, "task", "t", "", "task ID or t:<ticket> (default: active task)")
	cmd.Flags().StringVar(&url, "url", "", "ticket URL")
	return cmd
}

// newExportCommand creates the export command.
func newExportCommand(c *app.Container) *cobra.Command {
	var taskRef string

	cmd := &cobra.Command{
		Use:     "export",
		Short:   "Export a task and everything it owns as YAML",
		GroupID: groupTask,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ExportTaskUseCase().Execute(cmd.Context(), usecase.ExportTaskInput{Ref: taskRef})
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out.YAML)
			return err
		},
	}

	cmd.Flags().StringVarP(&taskRef, "task", "t", "", "task ID or t:<ticket> (default: active task)")
	return cmd
}

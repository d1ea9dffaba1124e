package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"track/internal/app"
	"track/internal/usecase"
)

// newLinkCommand creates the link command group.
func newLinkCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "link",
		Short:   "Manage a task's links",
		GroupID: groupItems,
	}
	cmd.AddCommand(
		newLinkAddCommand(c),
		newLinkListCommand(c),
		newLinkRemoveCommand(c),
	)
	return cmd
}

func newLinkAddCommand(c *app.Container) *cobra.Command {
	var taskRef, title string

	cmd := &cobra.Command{
		Use:   "add <url>",
		Short: "Attach a URL to a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.AddLinkUseCase().Execute(cmd.Context(), usecase.AddLinkInput{
				Ref:   taskRef,
				URL:   args[0],
				Title: title,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added link %d: %s\n", out.Link.ID, out.Link.URL)
			return nil
		},
	}

	cmd.Flags().StringVarP(&taskRef, "task", "t", "", "task ID or t:<ticket> (default: active task)")
	cmd.Flags().StringVar(&title, "title", "", "link title")
	return cmd
}

func newLinkListCommand(c *app.Container) *cobra.Command {
	var taskRef string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List links",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ListLinksUseCase().Execute(cmd.Context(), usecase.ListLinksInput{Ref: taskRef})
			if err != nil {
				return err
			}
			if len(out.Links) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No links.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tURL")
			for _, link := range out.Links {
				fmt.Fprintf(w, "%d\t%s\t%s\n", link.ID, link.Title, link.URL)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&taskRef, "task", "t", "", "task ID or t:<ticket> (default: active task)")
	return cmd
}

func newLinkRemoveCommand(c *app.Container) *cobra.Command {
	var taskRef string

	cmd := &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a link",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid link ID %q", args[0])
			}
			_, err = c.DeleteLinkUseCase().Execute(cmd.Context(), usecase.DeleteLinkInput{
				Ref:    taskRef,
				LinkID: id,
			})
			return err
		},
	}

	cmd.Flags().StringVarP(&taskRef, "task", "t", "", "task ID or t:<ticket> (default: active task)")
	return cmd
}

// newScrapCommand creates the scrap command group.
func newScrapCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "scrap",
		Short:   "Manage a task's notes",
		GroupID: groupItems,
	}
	cmd.AddCommand(
		newScrapAddCommand(c),
		newScrapListCommand(c),
	)
	return cmd
}

func newScrapAddCommand(c *app.Container) *cobra.Command {
	var taskRef string

	cmd := &cobra.Command{
		Use:   "add <content>",
		Short: "Attach a note to a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := c.AddScrapUseCase().Execute(cmd.Context(), usecase.AddScrapInput{
				Ref:     taskRef,
				Content: args[0],
			})
			return err
		},
	}

	cmd.Flags().StringVarP(&taskRef, "task", "t", "", "task ID or t:<ticket> (default: active task)")
	return cmd
}

func newScrapListCommand(c *app.Container) *cobra.Command {
	var taskRef string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List notes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ListScrapsUseCase().Execute(cmd.Context(), usecase.ListScrapsInput{Ref: taskRef})
			if err != nil {
				return err
			}
			if len(out.Scraps) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No notes.")
				return nil
			}
			for _, scrap := range out.Scraps {
				stamp := faintStyle.Render(scrap.Created.Local().Format(time.DateTime))
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", stamp, scrap.Content)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&taskRef, "task", "t", "", "task ID or t:<ticket> (default: active task)")
	return cmd
}

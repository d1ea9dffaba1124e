package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"track/internal/app"
	"track/internal/domain"
	"track/internal/notify"
	"track/internal/server"
)

// newServeCommand creates the serve command running the dashboard.
func newServeCommand(c *app.Container) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard server",
		Long: `Run the dashboard server: JSON state endpoints plus a
server-sent-events stream that fires whenever another track process
changes the data.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = c.Config.ServeAddr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			broker := notify.NewBroker(16)
			defer broker.Close()

			sample := func() (domain.Revisions, error) {
				var rev domain.Revisions
				err := c.Handle.Do(func(store domain.Store, _ domain.Gateway) error {
					var err error
					rev, err = store.Revisions()
					return err
				})
				return rev, err
			}
			detector := notify.NewDetector(sample, broker, c.Config.PollInterval, c.Logger)
			srv := server.New(addr, c.Handle, broker, c.Logger)

			errCh := make(chan error, 2)
			go func() { errCh <- detector.Run(ctx) }()
			go func() { errCh <- srv.Run(ctx) }()

			err := <-errCh
			stop()
			<-errCh
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

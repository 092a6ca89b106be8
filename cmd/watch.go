package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/hifz/internal/scheduler"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print a progress digest periodically until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			cmd.SetContext(ctx)

			return withApp(cmd, func(a *app) error {
				interval := a.cfg.Watch.Interval
				if every, _ := cmd.Flags().GetDuration("every"); every > 0 {
					interval = every
				}

				digest := scheduler.New(a.engine, scheduler.WriterReporter{W: cmd.OutOrStdout()}, interval, a.logger)
				if err := digest.Start(ctx); err != nil {
					return err
				}
				a.logger.Info("watching progress", slog.Duration("every", interval))

				<-ctx.Done()
				digest.Stop()
				a.logger.Info("stopped watching")
				return nil
			})
		},
	}
	cmd.Flags().Duration("every", 0, "Digest interval (default from config)")
	return cmd
}

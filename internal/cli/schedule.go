package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/d9sync/internal/api"
	"github.com/pratik-mahalle/d9sync/internal/worker"
)

func newScheduleCmd(opts *rootOptions) *cobra.Command {
	var (
		schedule string
		listen   string
		offboard bool
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run sync on a cron schedule until interrupted",
		Long: `Run sync once immediately and then on every tick of a cron schedule.
The schedule accepts five field cron expressions and descriptors such as
@hourly or "@every 30m". A tick that fires while a sync is still running is
skipped.

With --listen, a status server exposes /healthz, /readyz, /status and
/metrics while the scheduler runs.`,
		Example: `  d9sync schedule --cron "@every 15m" --offboard --listen :9090
  D9SYNC_SCHEDULE="0 * * * *" d9sync schedule`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if cmd.Flags().Changed("cron") {
				opts.cfg.Sync.Schedule = schedule
			}
			if cmd.Flags().Changed("listen") {
				opts.cfg.Sync.ListenAddr = listen
			}

			svc, err := opts.syncService(ctx)
			if err != nil {
				return err
			}

			scheduler, err := worker.NewSyncScheduler(svc, opts.cfg.Sync.Schedule, offboard, opts.log)
			if err != nil {
				return err
			}

			if opts.cfg.Sync.ListenAddr == "" {
				return scheduler.Start(ctx)
			}

			// The status server stops with the scheduler
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			server := api.NewServer(opts.cfg.Sync.ListenAddr, scheduler, opts.log)
			ln, err := server.Listen()
			if err != nil {
				return err
			}
			serverErr := make(chan error, 1)
			go func() {
				serverErr <- server.Serve(ctx, ln)
				cancel()
			}()

			if err := scheduler.Start(ctx); err != nil {
				return err
			}
			cancel()
			return <-serverErr
		},
	}

	cmd.Flags().StringVar(&schedule, "cron", "", "cron schedule (overrides D9SYNC_SCHEDULE, default @hourly)")
	cmd.Flags().StringVar(&listen, "listen", "", "serve health, status and metrics on this address (overrides D9SYNC_LISTEN_ADDR)")
	cmd.Flags().BoolVar(&offboard, "offboard", false, "also remove accounts for projects that are no longer ACTIVE")
	return cmd
}

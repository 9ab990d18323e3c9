package cli

import (
	"github.com/spf13/cobra"
)

func newSyncCmd(opts *rootOptions) *cobra.Command {
	var offboard bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Onboard new projects and optionally offboard stale ones",
		Long: `Onboard every ACTIVE project missing from Dome9, then, with --offboard,
remove the Dome9 accounts whose project is no longer ACTIVE. Offboarding
lists both sides again so it sees the accounts onboarding just created.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			svc, err := opts.syncService(ctx)
			if err != nil {
				return err
			}

			summaries, runErr := svc.Sync(ctx, offboard)
			if err := renderSummaries(cmd.OutOrStdout(), opts.getOutputFormat(), summaries); err != nil {
				return err
			}
			return runErr
		},
	}

	cmd.Flags().BoolVar(&offboard, "offboard", false, "also remove accounts for projects that are no longer ACTIVE")
	return cmd
}

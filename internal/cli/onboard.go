package cli

import (
	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/d9sync/internal/services"
)

type operation int

const (
	operationOnboard operation = iota
	operationOffboard
)

func newOnboardCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "onboard",
		Short: "Register every ACTIVE project that is missing from Dome9",
		Long: `Register every ACTIVE Google Cloud project that has no Dome9 account yet.
The service account key from GOOGLE_APPLICATION_CREDENTIALS is sent with
project_id set to each project in turn. This is the default command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDriver(cmd, opts, operationOnboard)
		},
	}
}

func newOffboardCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "offboard",
		Short: "Remove Dome9 accounts whose project is no longer ACTIVE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDriver(cmd, opts, operationOffboard)
		},
	}
}

// runDriver runs one driver and prints its summary. The summary is printed
// even when the run failed; the run error is returned afterwards.
func runDriver(cmd *cobra.Command, opts *rootOptions, op operation) error {
	ctx := cmd.Context()

	svc, err := opts.syncService(ctx)
	if err != nil {
		return err
	}

	var summary *services.Summary
	var runErr error
	if op == operationOffboard {
		summary, runErr = svc.Offboard(ctx)
	} else {
		summary, runErr = svc.Onboard(ctx)
	}

	if err := renderSummaries(cmd.OutOrStdout(), opts.getOutputFormat(), []*services.Summary{summary}); err != nil {
		return err
	}
	return runErr
}

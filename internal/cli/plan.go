package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPlanCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show what onboard and offboard would do, without writing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			svc, err := opts.syncService(ctx)
			if err != nil {
				return err
			}

			plan, err := svc.Plan(ctx)
			if err != nil {
				return fmt.Errorf("failed to build plan: %w", err)
			}

			w := cmd.OutOrStdout()
			format := opts.getOutputFormat()
			if format != "table" {
				return printOutput(w, format, plan)
			}

			fmt.Fprintf(w, "%d ACTIVE projects, %d registered accounts\n\n", plan.Projects, plan.Accounts)

			t := NewTable(w, "PROJECT ID", "NAME", "REGISTRY ID", "ACTION")
			for _, item := range plan.Onboard {
				t.AddRow(item.ProjectID, truncate(item.Name, 40), "-", green("onboard"))
			}
			for _, item := range plan.Offboard {
				t.AddRow(item.ProjectID, truncate(item.Name, 40), item.RegistryID, red("offboard"))
			}
			t.Render()

			fmt.Fprintf(w, "\n%d to onboard, %d to offboard\n", len(plan.Onboard), len(plan.Offboard))
			return nil
		},
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProjectsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List ACTIVE Google Cloud projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if err := opts.cfg.Validate(); err != nil {
				return err
			}
			b, err := opts.backends(ctx, opts.cfg)
			if err != nil {
				return err
			}

			projects, err := b.lister.ListActiveProjects(ctx)
			if err != nil {
				return fmt.Errorf("failed to list projects: %w", err)
			}

			w := cmd.OutOrStdout()
			format := opts.getOutputFormat()
			if format != "table" {
				return printOutput(w, format, projects)
			}

			t := NewTable(w, "PROJECT ID", "NAME", "STATE")
			for _, p := range projects {
				t.AddRow(p.ID, truncate(p.Name, 40), string(p.LifecycleState))
			}
			t.Render()
			fmt.Fprintf(w, "\n%d projects\n", len(projects))
			return nil
		},
	}
}

func newAccountsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List Google Cloud accounts registered in Dome9",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if err := opts.cfg.Validate(); err != nil {
				return err
			}
			b, err := opts.backends(ctx, opts.cfg)
			if err != nil {
				return err
			}

			accounts, err := b.registry.List(ctx)
			if err != nil {
				return fmt.Errorf("failed to list accounts: %w", err)
			}

			w := cmd.OutOrStdout()
			format := opts.getOutputFormat()
			if format != "table" {
				return printOutput(w, format, accounts)
			}

			t := NewTable(w, "REGISTRY ID", "PROJECT ID", "NAME")
			for _, a := range accounts {
				t.AddRow(a.RegistryID, a.CloudProjectID, truncate(a.Name, 40))
			}
			t.Render()
			fmt.Fprintf(w, "\n%d accounts\n", len(accounts))
			return nil
		},
	}
}

package cli

import (
	"github.com/spf13/cobra"
)

func newTestsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tests",
		Short: "List test plans in the workspace or on the remote runner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			remote, _ := cmd.Flags().GetBool("remote")

			if !remote {
				names, err := a.layout.TestDefinitions()
				if err != nil {
					return err
				}
				a.print(a.formatter.FormatNames("Tests", names))
				return nil
			}

			if err := a.cfg.RequireRemote(); err != nil {
				return err
			}
			names, err := a.lister(cmd.Context()).Refresh(cmd.Context())
			if err != nil {
				return errReported
			}
			a.print(a.formatter.FormatNames("Remote tests", names))
			return nil
		},
	}
	cmd.Flags().BoolP("remote", "r", false, "List the tests known to the remote runner")
	return cmd
}

func newFixturesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fixtures",
		Short: "List fixture files in the data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := a.fixtures.List()
			if err != nil {
				return err
			}
			a.print(a.formatter.FormatNames("Fixtures", names))
			return nil
		},
	}
}

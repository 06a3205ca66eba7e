package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/campload/internal/fixture"
	"github.com/wesleyorama2/campload/internal/orchestrator"
)

func newRunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run TEST",
		Short: "Run a JMeter test plan locally or on the remote runner",
		Long: `Run a JMeter test plan from the tests directory.

Local runs start JMeter in non-GUI mode and stream its output; results are
written to the results directory. Remote runs submit the plan to the test
runner and open its status page.`,
		Example: `  campload run Booking.jmx
  campload run Booking.jmx --fixture Booking.csv
  campload run Booking.jmx --remote`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			remote, _ := cmd.Flags().GetBool("remote")
			fixtureFile, _ := cmd.Flags().GetString("fixture")

			req := orchestrator.Request{TestName: args[0], Mode: orchestrator.ModeLocal}
			if remote {
				req.Mode = orchestrator.ModeRemote
				if err := a.cfg.RequireRemote(); err != nil {
					return err
				}
			} else {
				if err := a.cfg.RequireLocal(); err != nil {
					return err
				}
				if !a.layout.HasTest(req.TestName) {
					return fmt.Errorf("test plan %q not found in %s", req.TestName, a.layout.Tests)
				}
			}

			if fixtureFile != "" {
				if remote {
					return fmt.Errorf("--fixture applies to local runs only")
				}
				name, err := fixture.NameFromInput(fixtureFile)
				if err != nil {
					return err
				}
				req.FixtureFile = name
			}

			res, err := a.orchestrator(cmd.Context()).Execute(cmd.Context(), req)
			if err != nil {
				return err
			}
			a.print(a.formatter.FormatRunResult(res))
			if res.Status == orchestrator.StatusFailed {
				return errReported
			}
			return nil
		},
	}
	cmd.Flags().BoolP("remote", "r", false, "Submit the test to the remote runner")
	cmd.Flags().StringP("fixture", "f", "", "Fixture to make active before a local run")
	return cmd
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/campload/internal/notify"
)

var version = "0.1.0"

// errReported marks a failure that was already shown to the operator.
var errReported = errors.New("failure already reported")

// Option configures the command tree.
type Option func(*app)

// WithOpener replaces the browser used to show remote status pages.
func WithOpener(o notify.Opener) Option {
	return func(a *app) {
		a.opener = o
	}
}

// NewRootCmd builds the campload command tree.
func NewRootCmd(options ...Option) *cobra.Command {
	a := &app{}
	for _, option := range options {
		option(a)
	}

	rootCmd := &cobra.Command{
		Use:     "campload",
		Short:   "Generate booking fixtures and run JMeter load tests against a campground platform",
		Version: version,
		Long: `campload prepares and runs ad-hoc load tests of a campground reservation
platform. Pick a park, a campsite type and a stay window to generate the
fixture a JMeter test plan reads, then run the plan locally or submit it to
the remote test runner.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// If no subcommand is provided, print help
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "Path to the configuration file (default: campload.yaml in the work directory)")
	flags.StringP("workdir", "w", ".", "Workspace root containing Tests/, Data/ and Results/")
	flags.StringP("output", "o", "text", "Output format: text, json or yaml")
	flags.BoolP("verbose", "v", false, "Show run details")
	flags.Bool("no-color", false, "Disable colored output")
	flags.String("log-level", "", "Log level for the log file: debug, info, warn or error")

	rootCmd.AddCommand(newParksCmd(a))
	rootCmd.AddCommand(newSitesCmd(a))
	rootCmd.AddCommand(newGenerateCmd(a))
	rootCmd.AddCommand(newTestsCmd(a))
	rootCmd.AddCommand(newFixturesCmd(a))
	rootCmd.AddCommand(newRunCmd(a))

	return rootCmd
}

// Execute runs the command line and reports any error not already shown.
// This is called by main.main().
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := NewRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
	}
	return err
}

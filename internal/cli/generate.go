package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/campload/internal/catalog"
	"github.com/wesleyorama2/campload/internal/ctxlog"
	"github.com/wesleyorama2/campload/internal/fixture"
	"github.com/wesleyorama2/campload/internal/output"
)

const dateLayout = "2006-01-02"

func newGenerateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a booking fixture for a park and stay window",
		Long: `Generate one fixture row per campsite and night of the stay window, each with
its own synthetic user, and make the file the active fixture JMeter reads.

The fixture is named after --name, or after --test with its extension
replaced by .csv. Without either the active fixture is written directly.`,
		Example: `  campload generate --park P1 --type tent --check-in 2024-02-28 --check-out 2024-03-01
  campload generate --park P1 --check-in 2024-07-01 --test Booking.jmx --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			park, _ := cmd.Flags().GetString("park")
			siteType, _ := cmd.Flags().GetString("type")
			checkIn, _ := cmd.Flags().GetString("check-in")
			checkOut, _ := cmd.Flags().GetString("check-out")
			name, _ := cmd.Flags().GetString("name")
			testName, _ := cmd.Flags().GetString("test")
			yes, _ := cmd.Flags().GetBool("yes")

			filter, err := catalog.ParseFilter(siteType)
			if err != nil {
				return err
			}
			sel, err := parseSelection(park, filter, checkIn, checkOut)
			if err != nil {
				return err
			}
			fileName, err := fixtureName(name, testName, a.fixtures.ActiveName())
			if err != nil {
				return err
			}

			store, err := a.catalog(cmd.Context())
			if err != nil {
				return err
			}
			loc, ok := store.Location(sel.LocationID)
			if !ok {
				return fmt.Errorf("unknown park %q", sel.LocationID)
			}

			count := fixture.RowCount(sel, store)
			if count == 0 {
				a.sink.Failure("Nothing to generate", fixture.ErrEmptySelection)
				return errReported
			}
			if !yes && !confirm(cmd, fmt.Sprintf("This will generate %d rows for %s into %s. Continue?", count, loc.Name, fileName)) {
				a.sink.Info("Generation cancelled")
				return nil
			}

			generator := fixture.NewGenerator(
				fixture.WithEmailDomain(a.cfg.Fixture.EmailDomain),
				fixture.WithIdentityCycle(a.cfg.Fixture.IdentityCycle),
			)
			rows := generator.Generate(sel, store)
			path, err := a.fixtures.Save(fileName, rows)
			if err != nil {
				a.sink.Failure("Cannot write fixture", err)
				return errReported
			}
			ctxlog.FromContext(cmd.Context()).Info("Fixture written", "file", fileName, "rows", len(rows), "park", loc.ID)

			category := "all"
			if !catalog.IsAll(filter) {
				category = catalog.Label(filter)
			}
			a.print(a.formatter.FormatFixture(output.FixtureData{
				File:      fileName,
				Path:      path,
				Rows:      len(rows),
				Active:    a.fixtures.ActiveName(),
				Park:      loc.Name,
				Category:  category,
				CheckIn:   sel.CheckIn.Format(dateLayout),
				CheckOut:  sel.CheckOut.Format(dateLayout),
				Timestamp: time.Now().Format(time.RFC3339),
			}))
			return nil
		},
	}

	cmd.Flags().StringP("park", "p", "", "Park id")
	cmd.Flags().StringP("type", "t", catalog.AllCategories, "Campsite type: "+typeHelp())
	cmd.Flags().String("check-in", "", "First night of the stay (YYYY-MM-DD)")
	cmd.Flags().String("check-out", "", "Last night of the stay (YYYY-MM-DD, default: check-in)")
	cmd.Flags().StringP("name", "n", "", "Fixture file name")
	cmd.Flags().String("test", "", "Name the fixture after this test plan")
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	cmd.MarkFlagRequired("park")
	cmd.MarkFlagRequired("check-in")
	cmd.MarkFlagsMutuallyExclusive("name", "test")

	return cmd
}

func parseSelection(park, filter, checkIn, checkOut string) (fixture.Selection, error) {
	in, err := time.Parse(dateLayout, checkIn)
	if err != nil {
		return fixture.Selection{}, fmt.Errorf("invalid check-in date %q: want YYYY-MM-DD", checkIn)
	}
	out := in
	if checkOut != "" {
		out, err = time.Parse(dateLayout, checkOut)
		if err != nil {
			return fixture.Selection{}, fmt.Errorf("invalid check-out date %q: want YYYY-MM-DD", checkOut)
		}
	}
	return fixture.Selection{LocationID: park, Category: filter, CheckIn: in, CheckOut: out}, nil
}

func fixtureName(name, testName, active string) (string, error) {
	switch {
	case name != "":
		return fixture.NameFromInput(name)
	case testName != "":
		return fixture.NameForTest(testName)
	default:
		return active, nil
	}
}

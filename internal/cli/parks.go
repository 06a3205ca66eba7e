package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/campload/internal/catalog"
	"github.com/wesleyorama2/campload/internal/output"
)

func newParksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "parks",
		Short: "List the parks in the reference data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.catalog(cmd.Context())
			if err != nil {
				return err
			}
			a.print(a.formatter.FormatLocations(store.Locations()))
			return nil
		},
	}
}

func newSitesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sites PARK_ID",
		Short: "List the campsites of a park",
		Long: "List the campsites of a park, optionally filtered by type.\n\n" +
			"Types: " + typeHelp() + ".",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			siteType, _ := cmd.Flags().GetString("type")

			filter, err := catalog.ParseFilter(siteType)
			if err != nil {
				return err
			}
			store, err := a.catalog(cmd.Context())
			if err != nil {
				return err
			}
			loc, ok := store.Location(args[0])
			if !ok {
				return fmt.Errorf("unknown park %q", args[0])
			}

			units := store.UnitsFor(loc.ID, filter)
			a.print(a.formatter.FormatUnits(output.UnitsData{
				Location: loc,
				Category: filter,
				Count:    len(units),
				Units:    units,
			}))
			return nil
		},
	}
	cmd.Flags().StringP("type", "t", catalog.AllCategories, "Campsite type to list")
	return cmd
}

// typeHelp lists the accepted values of a --type flag.
func typeHelp() string {
	names := []string{catalog.AllCategories}
	for _, c := range catalog.Categories() {
		names = append(names, fmt.Sprintf("%s (%s)", strings.ToLower(c.Label), c.Code))
	}
	return strings.Join(names, ", ") + " or any other numeric type code"
}

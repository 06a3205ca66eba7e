package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/wesleyorama2/campload/internal/catalog"
	"github.com/wesleyorama2/campload/internal/orchestrator"
)

// Formatter renders catalog data and run results as human-readable text
type Formatter struct {
	Verbose bool
	NoColor bool
	scheme  *ColorScheme
}

// NewFormatter creates a new formatter with the given options
func NewFormatter(verbose, noColor bool) *Formatter {
	return &Formatter{
		Verbose: verbose,
		NoColor: noColor,
		scheme:  Scheme(noColor),
	}
}

func (f *Formatter) colors() *ColorScheme {
	if f.scheme == nil {
		f.scheme = Scheme(f.NoColor)
	}
	return f.scheme
}

// FormatLocations lists parks as "id  name" lines
func (f *Formatter) FormatLocations(locations []catalog.Location) string {
	c := f.colors()
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("%s (%s)\n", c.Title.Sprint("Parks"), c.Count.Sprint(len(locations))))
	width := 0
	for _, loc := range locations {
		width = max(width, len(loc.ID))
	}
	for _, loc := range locations {
		buf.WriteString(fmt.Sprintf("  %s  %s\n", c.ID.Sprint(pad(loc.ID, width)), c.Name.Sprint(loc.Name)))
	}
	return buf.String()
}

// FormatUnits lists the campsites of a park with their type label
func (f *Formatter) FormatUnits(data UnitsData) string {
	c := f.colors()
	var buf strings.Builder

	category := "all types"
	if !catalog.IsAll(data.Category) {
		category = catalog.Label(data.Category)
	}
	buf.WriteString(fmt.Sprintf("%s %s, %s: %s sites\n",
		c.Title.Sprint("Park"),
		c.Highlight.Sprint(data.Location.Name),
		c.Category.Sprint(category),
		c.Count.Sprint(data.Count)))

	width := 0
	for _, u := range data.Units {
		width = max(width, len(u.ID))
	}
	for _, u := range data.Units {
		buf.WriteString(fmt.Sprintf("  %s  %s %s\n",
			c.ID.Sprint(pad(u.ID, width)),
			c.Name.Sprint(u.Name),
			c.Muted.Sprintf("(%s)", catalog.Label(u.Category))))
	}
	return buf.String()
}

// FormatNames renders a titled list, one name per line
func (f *Formatter) FormatNames(title string, names []string) string {
	c := f.colors()
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("%s (%s)\n", c.Title.Sprint(title), c.Count.Sprint(len(names))))
	if len(names) == 0 {
		buf.WriteString(fmt.Sprintf("  %s\n", c.Muted.Sprint("none")))
	}
	for _, name := range names {
		buf.WriteString(fmt.Sprintf("  %s\n", name))
	}
	return buf.String()
}

// FormatFixture summarizes a written fixture
func (f *Formatter) FormatFixture(data FixtureData) string {
	c := f.colors()
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("%s Wrote %s rows to %s\n", SuccessIcon(f.NoColor), c.Count.Sprint(data.Rows), c.Highlight.Sprint(data.Path)))
	if data.Active != "" && data.Active != data.File {
		buf.WriteString(fmt.Sprintf("  Active fixture %s updated\n", c.Name.Sprint(data.Active)))
	}
	if f.Verbose {
		buf.WriteString(fmt.Sprintf("  Park:      %s\n", data.Park))
		buf.WriteString(fmt.Sprintf("  Type:      %s\n", data.Category))
		buf.WriteString(fmt.Sprintf("  Check in:  %s\n", data.CheckIn))
		buf.WriteString(fmt.Sprintf("  Check out: %s\n", data.CheckOut))
	}
	return buf.String()
}

// FormatRunResult reports the outcome of a run
func (f *Formatter) FormatRunResult(res orchestrator.Result) string {
	c := f.colors()
	var buf strings.Builder

	switch res.Status {
	case orchestrator.StatusSucceeded:
		buf.WriteString(fmt.Sprintf("%s %s %s (%s, %s)\n",
			SuccessIcon(f.NoColor), c.Highlight.Sprint(res.TestName), c.Success.Sprint("succeeded"),
			res.Mode, res.Duration.Round(time.Millisecond)))
	case orchestrator.StatusSubmittedPending:
		buf.WriteString(fmt.Sprintf("%s %s %s\n",
			InfoIcon(f.NoColor), c.Highlight.Sprint(res.TestName), c.Warn.Sprint("submitted")))
		buf.WriteString(fmt.Sprintf("  Status page: %s\n", c.URL.Sprint(res.StatusURL)))
	default:
		buf.WriteString(fmt.Sprintf("%s %s %s",
			ErrorIcon(f.NoColor), c.Highlight.Sprint(res.TestName), c.Error.Sprint("failed")))
		if res.Err != nil {
			buf.WriteString(": " + res.Err.Error())
		}
		buf.WriteString("\n")
	}

	if f.Verbose {
		states := make([]string, len(res.States))
		for i, s := range res.States {
			states[i] = string(s)
		}
		buf.WriteString(fmt.Sprintf("  Run:    %s\n", res.RunID))
		buf.WriteString(fmt.Sprintf("  States: %s\n", strings.Join(states, " → ")))
		if res.Mode == orchestrator.ModeLocal {
			buf.WriteString(fmt.Sprintf("  Exit:   %d\n", res.ExitCode))
		}
	}
	return buf.String()
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// Package fixture expands a park/type/date selection into the synthetic
// booking rows a JMeter plan reads, and manages the fixture files on disk.
package fixture

import (
	"fmt"
	"time"

	"github.com/wesleyorama2/campload/internal/catalog"
)

const (
	// DefaultEmailDomain is the domain of the synthetic load-test users.
	DefaultEmailDomain = "campspot.com"
	// DefaultIdentityCycle is how many distinct synthetic users are handed
	// out before the sequence starts again at 1.
	DefaultIdentityCycle = 1000

	emailTemplate = "LoadtestUser+%d@%s"
)

// UnitSource provides the campsites of a park filtered by type.
type UnitSource interface {
	UnitsFor(locationID, category string) []catalog.ResourceUnit
}

// Selection is what the operator picked: a park, a campsite type filter and
// an inclusive check-in/check-out window.
type Selection struct {
	LocationID string
	Category   string
	CheckIn    time.Time
	CheckOut   time.Time
}

// StayLength is the number of nights to generate per campsite: whole days
// from check-in to check-out plus one, or 0 when check-out precedes check-in.
func (s Selection) StayLength() int {
	in, out := dateOnly(s.CheckIn), dateOnly(s.CheckOut)
	if out.Before(in) {
		return 0
	}
	return int(out.Sub(in)/(24*time.Hour)) + 1
}

// Row is one synthetic booking: a user, a campsite and a one-night stay.
type Row struct {
	Email      string
	UnitID     string
	LocationID string
	Category   string
	Arrival    time.Time
	Departure  time.Time
}

// Generator produces fixture rows.
type Generator struct {
	domain string
	cycle  int
}

// Option configures a Generator.
type Option func(*Generator)

// WithEmailDomain sets the domain of the synthetic users.
func WithEmailDomain(domain string) Option {
	return func(g *Generator) {
		if domain != "" {
			g.domain = domain
		}
	}
}

// WithIdentityCycle sets how many distinct synthetic users are generated
// before the sequence repeats.
func WithIdentityCycle(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.cycle = n
		}
	}
}

// NewGenerator creates a Generator with the given options.
func NewGenerator(options ...Option) *Generator {
	g := &Generator{
		domain: DefaultEmailDomain,
		cycle:  DefaultIdentityCycle,
	}
	for _, option := range options {
		option(g)
	}
	return g
}

// Email returns the synthetic identity for the n-th emitted row (1-based).
func (g *Generator) Email(n int) string {
	return fmt.Sprintf(emailTemplate, ((n-1)%g.cycle)+1, g.domain)
}

// Generate expands sel into rows: campsites in catalog order, and for each
// campsite one row per night starting at check-in.
func (g *Generator) Generate(sel Selection, units UnitSource) []Row {
	stay := sel.StayLength()
	if stay <= 0 {
		return []Row{}
	}
	sites := units.UnitsFor(sel.LocationID, sel.Category)
	if len(sites) == 0 {
		return []Row{}
	}

	checkIn := dateOnly(sel.CheckIn)
	rows := make([]Row, 0, len(sites)*stay)
	counter := 1
	for _, site := range sites {
		for offset := 0; offset < stay; offset++ {
			arrival := checkIn.AddDate(0, 0, offset)
			rows = append(rows, Row{
				Email:      g.Email(counter),
				UnitID:     site.ID,
				LocationID: site.LocationID,
				Category:   site.Category,
				Arrival:    arrival,
				Departure:  arrival.AddDate(0, 0, 1),
			})
			counter++
		}
	}
	return rows
}

// RowCount is the number of rows Generate would produce. It is shown to the
// operator before anything is written.
func RowCount(sel Selection, units UnitSource) int {
	stay := sel.StayLength()
	if stay <= 0 {
		return 0
	}
	return len(units.UnitsFor(sel.LocationID, sel.Category)) * stay
}

// dateOnly drops the time of day and zone so day arithmetic is calendar based.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

package fixture

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/campload/internal/catalog"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// unitList is a UnitSource backed by a fixed slice.
type unitList []catalog.ResourceUnit

func (u unitList) UnitsFor(locationID, category string) []catalog.ResourceUnit {
	var out []catalog.ResourceUnit
	for _, unit := range u {
		if unit.LocationID == locationID && (catalog.IsAll(category) || unit.Category == category) {
			out = append(out, unit)
		}
	}
	return out
}

func sites(n int, park string) unitList {
	out := make(unitList, n)
	for i := range out {
		out[i] = catalog.ResourceUnit{ID: "S" + string(rune('A'+i%26)), LocationID: park, Category: "0"}
	}
	return out
}

func TestSelection_StayLength(t *testing.T) {
	tests := []struct {
		name     string
		in, out  time.Time
		expected int
	}{
		{name: "same day", in: date(2024, 5, 1), out: date(2024, 5, 1), expected: 1},
		{name: "three nights", in: date(2024, 5, 1), out: date(2024, 5, 3), expected: 3},
		{name: "reversed", in: date(2024, 5, 3), out: date(2024, 5, 1), expected: 0},
		{name: "leap february", in: date(2024, 2, 28), out: date(2024, 3, 1), expected: 3},
		{name: "non-leap february", in: date(2023, 2, 28), out: date(2023, 3, 1), expected: 2},
		{name: "time of day ignored", in: time.Date(2024, 5, 1, 23, 0, 0, 0, time.UTC), out: time.Date(2024, 5, 2, 1, 0, 0, 0, time.UTC), expected: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := Selection{CheckIn: tt.in, CheckOut: tt.out}
			assert.Equal(t, tt.expected, sel.StayLength())
		})
	}
}

func TestGenerate_EmptyResults(t *testing.T) {
	g := NewGenerator()
	units := sites(2, "P1")

	reversed := Selection{LocationID: "P1", Category: "all", CheckIn: date(2024, 5, 3), CheckOut: date(2024, 5, 1)}
	assert.Empty(t, g.Generate(reversed, units))
	assert.Zero(t, RowCount(reversed, units))

	noMatch := Selection{LocationID: "P1", Category: "3", CheckIn: date(2024, 5, 1), CheckOut: date(2024, 5, 3)}
	assert.Empty(t, g.Generate(noMatch, units))
	assert.Zero(t, RowCount(noMatch, units))

	unknownPark := Selection{LocationID: "nope", Category: "all", CheckIn: date(2024, 5, 1), CheckOut: date(2024, 5, 3)}
	assert.Empty(t, g.Generate(unknownPark, units))
}

func TestGenerate_RowCount(t *testing.T) {
	g := NewGenerator()
	for _, n := range []int{1, 2, 7} {
		for _, nights := range []int{1, 3, 31} {
			sel := Selection{LocationID: "P1", Category: "all", CheckIn: date(2024, 1, 1), CheckOut: date(2024, 1, nights)}
			units := sites(n, "P1")
			rows := g.Generate(sel, units)
			assert.Len(t, rows, n*nights)
			assert.Equal(t, n*nights, RowCount(sel, units))
		}
	}
}

func TestGenerate_OrderAndDates(t *testing.T) {
	units := unitList{
		{ID: "A", LocationID: "P1", Category: "0"},
		{ID: "B", LocationID: "P1", Category: "2"},
	}
	sel := Selection{LocationID: "P1", Category: "all", CheckIn: date(2023, 12, 30), CheckOut: date(2024, 1, 1)}

	rows := NewGenerator().Generate(sel, units)
	require.Len(t, rows, 6)

	expected := []struct {
		unit      string
		arrival   time.Time
		departure time.Time
	}{
		{"A", date(2023, 12, 30), date(2023, 12, 31)},
		{"A", date(2023, 12, 31), date(2024, 1, 1)},
		{"A", date(2024, 1, 1), date(2024, 1, 2)},
		{"B", date(2023, 12, 30), date(2023, 12, 31)},
		{"B", date(2023, 12, 31), date(2024, 1, 1)},
		{"B", date(2024, 1, 1), date(2024, 1, 2)},
	}
	for i, want := range expected {
		assert.Equal(t, want.unit, rows[i].UnitID, "row %d", i)
		assert.Equal(t, want.arrival, rows[i].Arrival, "row %d", i)
		assert.Equal(t, want.departure, rows[i].Departure, "row %d", i)
		assert.Equal(t, "P1", rows[i].LocationID)
	}
	assert.Equal(t, "2", rows[3].Category)
}

func TestGenerate_EmailCycle(t *testing.T) {
	g := NewGenerator()
	assert.Equal(t, "LoadtestUser+1@campspot.com", g.Email(1))
	assert.Equal(t, "LoadtestUser+1000@campspot.com", g.Email(1000))
	assert.Equal(t, "LoadtestUser+1@campspot.com", g.Email(1001))

	// 5 sites over 450 nights is 2250 rows, well past two full cycles.
	sel := Selection{LocationID: "P1", Category: "all", CheckIn: date(2024, 1, 1), CheckOut: date(2024, 1, 1).AddDate(0, 0, 449)}
	rows := g.Generate(sel, sites(5, "P1"))
	require.Len(t, rows, 2250)

	assert.Equal(t, rows[0].Email, rows[1000].Email)
	assert.Equal(t, rows[0].Email, rows[2000].Email)
	assert.Equal(t, "LoadtestUser+1000@campspot.com", rows[999].Email)
	assert.Equal(t, "LoadtestUser+2@campspot.com", rows[1001].Email)

	seen := map[string]bool{}
	for _, r := range rows {
		seen[r.Email] = true
	}
	assert.Len(t, seen, 1000)
}

func TestGenerate_Options(t *testing.T) {
	g := NewGenerator(WithEmailDomain("example.org"), WithIdentityCycle(3))
	assert.Equal(t, "LoadtestUser+3@example.org", g.Email(3))
	assert.Equal(t, "LoadtestUser+1@example.org", g.Email(4))

	g = NewGenerator(WithEmailDomain(""), WithIdentityCycle(0))
	assert.Equal(t, "LoadtestUser+1@campspot.com", g.Email(1001))
}

func TestGenerate_LeapYearScenario(t *testing.T) {
	store, err := catalog.Load(
		strings.NewReader("ParkID,name\nP1,Pine Hollow\nP2,Other\n"),
		strings.NewReader("id,name,ParkID,type\nS1,One,P1,0\nS2,Two,P1,1\nS3,Three,P2,0\n"),
	)
	require.NoError(t, err)

	sel := Selection{LocationID: "P1", Category: catalog.AllCategories, CheckIn: date(2024, 2, 28), CheckOut: date(2024, 3, 1)}
	require.Equal(t, 3, sel.StayLength())
	require.Equal(t, 6, RowCount(sel, store))

	rows := NewGenerator().Generate(sel, store)
	require.Len(t, rows, 6)

	assert.Equal(t, date(2024, 2, 29), rows[1].Arrival)
	assert.Equal(t, date(2024, 3, 1), rows[1].Departure)
	assert.Equal(t, date(2024, 3, 1), rows[2].Arrival)
	assert.Equal(t, date(2024, 3, 2), rows[2].Departure)
	assert.Equal(t, "S2", rows[3].UnitID)
	assert.Equal(t, "LoadtestUser+6@campspot.com", rows[5].Email)
}

package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const parksCSV = `ParkID,name
P1,Pine Hollow
P2,Lakeside
P3,Empty Acres
`

const sitesCSV = `id,name,ParkID,type
S1,Site 1,P1,0
S2,Site 2,P1,2
S3,Cabin A,P2,1
S4,Ghost,P9,0
,,P1,0
S5,Site 5,P1,2
`

func loadTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Load(strings.NewReader(parksCSV), strings.NewReader(sitesCSV))
	require.NoError(t, err)
	return s
}

func TestLoad_PreservesOrder(t *testing.T) {
	s := loadTestStore(t)

	locs := s.Locations()
	require.Len(t, locs, 3)
	assert.Equal(t, []string{"P1", "P2", "P3"}, []string{locs[0].ID, locs[1].ID, locs[2].ID})
	assert.Equal(t, "Lakeside", locs[1].Name)

	loc, ok := s.Location("P2")
	assert.True(t, ok)
	assert.Equal(t, "Lakeside", loc.Name)

	_, ok = s.Location("nope")
	assert.False(t, ok)
}

func TestLoad_DropsUnknownPark(t *testing.T) {
	s := loadTestStore(t)

	assert.Equal(t, 1, s.Dropped())
	assert.Empty(t, s.UnitsFor("P9", AllCategories))

	units := s.UnitsFor("P1", AllCategories)
	require.Len(t, units, 3)
	assert.Equal(t, "S1", units[0].ID)
	assert.Equal(t, "S2", units[1].ID)
	assert.Equal(t, "S5", units[2].ID)

	// Unrelated parks are unaffected by the dropped row.
	assert.Len(t, s.UnitsFor("P2", AllCategories), 1)
}

func TestUnitsFor_Filter(t *testing.T) {
	s := loadTestStore(t)

	tests := []struct {
		name     string
		park     string
		filter   string
		expected []string
	}{
		{name: "all", park: "P1", filter: "all", expected: []string{"S1", "S2", "S5"}},
		{name: "all in any case", park: "P1", filter: "ALL", expected: []string{"S1", "S2", "S5"}},
		{name: "empty filter means all", park: "P1", filter: "", expected: []string{"S1", "S2", "S5"}},
		{name: "legacy all code", park: "P1", filter: "-1", expected: []string{"S1", "S2", "S5"}},
		{name: "tent only", park: "P1", filter: CategoryTent, expected: []string{"S2", "S5"}},
		{name: "no match", park: "P1", filter: CategoryStorage, expected: []string{}},
		{name: "park without sites", park: "P3", filter: "all", expected: []string{}},
		{name: "unknown park", park: "ZZ", filter: "all", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := []string{}
			for _, u := range s.UnitsFor(tt.park, tt.filter) {
				got = append(got, u.ID)
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLoad_MissingColumn(t *testing.T) {
	_, err := Load(strings.NewReader("id,name\nP1,Pine\n"), strings.NewReader(sitesCSV))
	require.Error(t, err)

	var dfe *DataFormatError
	require.True(t, errors.As(err, &dfe))
	assert.Equal(t, "parks", dfe.Source)
	assert.Contains(t, dfe.Error(), `"parkid"`)

	_, err = Load(strings.NewReader(parksCSV), strings.NewReader("id,name,ParkID\nS1,x,P1\n"))
	require.ErrorAs(t, err, &dfe)
	assert.Equal(t, "campsites", dfe.Source)
}

func TestLoad_EmptyTable(t *testing.T) {
	_, err := Load(strings.NewReader(""), strings.NewReader(sitesCSV))
	var dfe *DataFormatError
	require.ErrorAs(t, err, &dfe)
	assert.Contains(t, dfe.Message, "header")
}

func TestLoad_DuplicatePark(t *testing.T) {
	_, err := Load(strings.NewReader("ParkID,name\nP1,a\nP1,b\n"), strings.NewReader("id,name,ParkID,type\n"))
	var dfe *DataFormatError
	require.ErrorAs(t, err, &dfe)
	assert.Equal(t, 3, dfe.Line)
}

func TestLoad_HeaderCaseAndExtraColumns(t *testing.T) {
	parks := "\ufeff name , PARKID ,region\nPine,P1,north\n"
	sites := "type,ParkID,id,name,notes\n2,P1,S1,Site 1,shady\n"

	s, err := Load(strings.NewReader(parks), strings.NewReader(sites))
	require.NoError(t, err)

	units := s.UnitsFor("P1", "all")
	require.Len(t, units, 1)
	assert.Equal(t, ResourceUnit{ID: "S1", Name: "Site 1", LocationID: "P1", Category: "2"}, units[0])
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	parks := filepath.Join(dir, "parks.csv")
	sites := filepath.Join(dir, "all-campsites.csv")
	require.NoError(t, os.WriteFile(parks, []byte(parksCSV), 0o644))
	require.NoError(t, os.WriteFile(sites, []byte(sitesCSV), 0o644))

	s, err := LoadFiles(parks, sites)
	require.NoError(t, err)
	assert.Len(t, s.Locations(), 3)

	_, err = LoadFiles(filepath.Join(dir, "missing.csv"), sites)
	var dfe *DataFormatError
	require.ErrorAs(t, err, &dfe)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "all", want: AllCategories},
		{input: "ALL", want: AllCategories},
		{input: "", want: AllCategories},
		{input: "rv", want: CategoryRV},
		{input: "Lodging", want: CategoryLodging},
		{input: "2", want: CategoryTent},
		{input: "storage", want: CategoryStorage},
		{input: "7", want: "7"},
		{input: "yurt", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFilter(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Tent", Label("2"))
	assert.Equal(t, "7", Label("7"))
}

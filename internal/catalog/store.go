// Package catalog holds the parks and campsites that fixtures are generated from.
//
// The catalog is loaded once from two CSV tables and is read-only afterwards,
// so it is safe for concurrent readers without locking.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// AllCategories is the category filter that matches every campsite.
const AllCategories = "all"

// Column names of the reference tables. Matching is case-insensitive.
const (
	colParkID   = "parkid"
	colName     = "name"
	colSiteID   = "id"
	colSiteType = "type"
)

// Location is a bookable park.
type Location struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// ResourceUnit is an individually bookable campsite belonging to one park.
type ResourceUnit struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	LocationID string `json:"parkId" yaml:"parkId"`
	Category   string `json:"type" yaml:"type"`
}

// DataFormatError reports malformed reference data.
type DataFormatError struct {
	Source  string
	Line    int
	Message string
	Err     error
}

func (e *DataFormatError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Source)
	if e.Line > 0 {
		sb.WriteString(fmt.Sprintf(":%d", e.Line))
	}
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *DataFormatError) Unwrap() error {
	return e.Err
}

// Store is an in-memory registry of parks and their campsites.
type Store struct {
	locations []Location
	byID      map[string]int
	units     map[string][]ResourceUnit
	dropped   int
}

// LoadFiles opens both reference tables and loads them.
func LoadFiles(locationsPath, unitsPath string) (*Store, error) {
	lf, err := os.Open(locationsPath)
	if err != nil {
		return nil, &DataFormatError{Source: locationsPath, Message: "cannot open parks table", Err: err}
	}
	defer lf.Close()

	uf, err := os.Open(unitsPath)
	if err != nil {
		return nil, &DataFormatError{Source: unitsPath, Message: "cannot open campsites table", Err: err}
	}
	defer uf.Close()

	return load(locationsPath, lf, unitsPath, uf)
}

// Load reads the parks table and the campsites table.
//
// A missing required column is a *DataFormatError. Campsites that reference an
// unknown park are dropped without error.
func Load(locations, units io.Reader) (*Store, error) {
	return load("parks", locations, "campsites", units)
}

func load(locName string, locations io.Reader, unitName string, units io.Reader) (*Store, error) {
	s := &Store{
		byID:  make(map[string]int),
		units: make(map[string][]ResourceUnit),
	}

	err := readTable(locName, locations, []string{colParkID, colName}, func(line int, get func(string) string) error {
		id := get(colParkID)
		if id == "" {
			return nil
		}
		if _, dup := s.byID[id]; dup {
			return &DataFormatError{Source: locName, Line: line, Message: fmt.Sprintf("duplicate park id %q", id)}
		}
		s.byID[id] = len(s.locations)
		s.locations = append(s.locations, Location{ID: id, Name: get(colName)})
		s.units[id] = []ResourceUnit{}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = readTable(unitName, units, []string{colSiteID, colName, colParkID, colSiteType}, func(line int, get func(string) string) error {
		id := get(colSiteID)
		if id == "" {
			return nil
		}
		parkID := get(colParkID)
		if _, ok := s.byID[parkID]; !ok {
			s.dropped++
			return nil
		}
		s.units[parkID] = append(s.units[parkID], ResourceUnit{
			ID:         id,
			Name:       get(colName),
			LocationID: parkID,
			Category:   get(colSiteType),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s, nil
}

// readTable parses a CSV table with a header row and calls fn for each data row.
func readTable(source string, r io.Reader, required []string, fn func(line int, get func(string) string) error) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &DataFormatError{Source: source, Line: 1, Message: "missing header row"}
	}
	if err != nil {
		return &DataFormatError{Source: source, Line: 1, Message: "unreadable header row", Err: err}
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return &DataFormatError{Source: source, Line: 1, Message: fmt.Sprintf("required column %q not found", col)}
		}
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			var perr *csv.ParseError
			line := 0
			if errors.As(err, &perr) {
				line = perr.Line
			}
			return &DataFormatError{Source: source, Line: line, Message: "malformed row", Err: err}
		}
		line, _ := reader.FieldPos(0)

		get := func(col string) string {
			i := index[col]
			if i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}
		if err := fn(line, get); err != nil {
			return err
		}
	}
}

// Locations returns every park in load order.
func (s *Store) Locations() []Location {
	out := make([]Location, len(s.locations))
	copy(out, s.locations)
	return out
}

// Location looks up a park by id.
func (s *Store) Location(id string) (Location, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Location{}, false
	}
	return s.locations[i], true
}

// UnitsFor returns the campsites of a park in load order, filtered by category.
// An unknown park yields an empty slice.
func (s *Store) UnitsFor(locationID, category string) []ResourceUnit {
	units := s.units[locationID]
	if IsAll(category) {
		out := make([]ResourceUnit, len(units))
		copy(out, units)
		return out
	}

	out := make([]ResourceUnit, 0, len(units))
	for _, u := range units {
		if u.Category == category {
			out = append(out, u)
		}
	}
	return out
}

// Dropped reports how many campsite rows were discarded for referencing an
// unknown park.
func (s *Store) Dropped() int {
	return s.dropped
}

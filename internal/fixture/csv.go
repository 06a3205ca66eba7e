package fixture

import (
	"encoding/csv"
	"io"
	"strconv"
)

// Header is the first line of every fixture file.
var Header = []string{
	"email", "campsite id", "park id", "type",
	"check in day", "check in month", "checkin year",
	"checkout day", "checkout month", "checkout year",
}

// Record renders the row in Header order.
func (r Row) Record() []string {
	return []string{
		r.Email, r.UnitID, r.LocationID, r.Category,
		strconv.Itoa(r.Arrival.Day()), strconv.Itoa(int(r.Arrival.Month())), strconv.Itoa(r.Arrival.Year()),
		strconv.Itoa(r.Departure.Day()), strconv.Itoa(int(r.Departure.Month())), strconv.Itoa(r.Departure.Year()),
	}
}

// WriteCSV writes the header and rows. Fields never contain the delimiter, so
// nothing is quoted.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row.Record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

package fixture

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	rows := []Row{
		{Email: "LoadtestUser+1@campspot.com", UnitID: "S1", LocationID: "P1", Category: "0", Arrival: date(2023, 12, 31), Departure: date(2024, 1, 1)},
		{Email: "LoadtestUser+2@campspot.com", UnitID: "S1", LocationID: "P1", Category: "0", Arrival: date(2024, 1, 1), Departure: date(2024, 1, 2)},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	expected := "email,campsite id,park id,type,check in day,check in month,checkin year,checkout day,checkout month,checkout year\n" +
		"LoadtestUser+1@campspot.com,S1,P1,0,31,12,2023,1,1,2024\n" +
		"LoadtestUser+2@campspot.com,S1,P1,0,1,1,2024,2,1,2024\n"
	assert.Equal(t, expected, buf.String())
}

func TestNameForTest(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{input: "Booking.jmx", expected: "Booking.csv"},
		{input: "Booking.JMX", expected: "Booking.csv"},
		{input: "Booking", expected: "Booking.csv"},
		{input: "jmx.loader.jmx", expected: "jmx.loader.csv"},
		{input: ".jmx", wantErr: true},
		{input: "../evil.jmx", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NameForTest(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNameFromInput(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{input: "weekend", expected: "weekend.csv"},
		{input: "weekend.csv", expected: "weekend.csv"},
		{input: "weekend.CSV", expected: "weekend.CSV"},
		{input: "  spaced  ", expected: "spaced.csv"},
		{input: "", wantErr: true},
		{input: "sub/dir.csv", wantErr: true},
		{input: `sub\dir`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NameFromInput(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateIn(t *testing.T) {
	zurich := time.FixedZone("CET", 3600)

	tests := []struct {
		name      string
		input     string
		wantErr   bool
		expectedY int
		expectedM time.Month
		expectedD int
		expectedH int
	}{
		{name: "ISO date", input: "2024-01-15", expectedY: 2024, expectedM: time.January, expectedD: 15},
		{name: "European date", input: "15.01.2024", expectedY: 2024, expectedM: time.January, expectedD: 15},
		{name: "full timestamp", input: "2024-02-29 18:30:00", expectedY: 2024, expectedM: time.February, expectedD: 29, expectedH: 18},
		{name: "minute precision", input: "2024-03-01T07:05", expectedY: 2024, expectedM: time.March, expectedD: 1, expectedH: 7},
		{name: "extra whitespace", input: "  2024-01-15  ", expectedY: 2024, expectedM: time.January, expectedD: 15},
		{name: "month name", input: "March 3, 2024", expectedY: 2024, expectedM: time.March, expectedD: 3},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "not a date", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDateIn(tt.input, zurich)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedY, got.Year())
			assert.Equal(t, tt.expectedM, got.Month())
			assert.Equal(t, tt.expectedD, got.Day())
			assert.Equal(t, tt.expectedH, got.Hour())
			assert.Equal(t, zurich, got.Location())
		})
	}
}

func TestParseDateIn_RFC3339KeepsOffset(t *testing.T) {
	got, err := ParseDateIn("2024-01-15T10:00:00Z", time.Local)
	require.NoError(t, err)
	assert.Equal(t, 10, got.UTC().Hour())
}

func TestDaysIn(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		days  int
	}{
		{2024, time.January, 31},
		{2024, time.February, 29},
		{2023, time.February, 28},
		{2100, time.February, 28},
		{2000, time.February, 29},
		{2024, time.April, 30},
		{2024, time.December, 31},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.days, DaysIn(tt.year, tt.month), "%d-%02d", tt.year, tt.month)
	}
}

func TestStartAndEndOfMonth(t *testing.T) {
	date := time.Date(2024, time.February, 14, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), StartOfMonth(date))
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), EndOfMonth(date))
	assert.Equal(t, time.Date(2024, time.February, 14, 0, 0, 0, 0, time.UTC), StartOfDay(date))
}

func TestSameMonth(t *testing.T) {
	a := time.Date(2024, time.March, 31, 23, 30, 0, 0, time.UTC)
	b := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, SameMonth(a, b, time.UTC))

	tokyo := time.FixedZone("JST", 9*3600)
	assert.False(t, SameMonth(a, b, tokyo), "a is already April in Tokyo")
}

func TestToISODate(t *testing.T) {
	assert.Equal(t, "2024-12-31", ToISODate(time.Date(2024, 12, 31, 8, 0, 0, 0, time.UTC)))
	assert.Equal(t, "", CleanDateString("   "))
}

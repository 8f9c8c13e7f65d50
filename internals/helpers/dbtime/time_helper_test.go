package dbtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayOf_UsesLocation(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	ts := time.Date(2024, 3, 31, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-04-01", DayOf(ts, ist))
	assert.Equal(t, "2024-03-31", DayOf(ts, nil))
}

func TestParseDate(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)

	d, dateOnly, err := ParseDate("2024-01-15", ist)
	require.NoError(t, err)
	assert.True(t, dateOnly)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, ist).Unix(), d.Unix())

	ts, dateOnly, err := ParseDate("2024-01-15T10:30:00Z", ist)
	require.NoError(t, err)
	assert.False(t, dateOnly)
	assert.Equal(t, 10, ts.UTC().Hour())

	_, _, err = ParseDate("15/01/2024", ist)
	assert.Error(t, err)
}

func TestParseRangeEnd_CoversWholeDay(t *testing.T) {
	end, err := ParseRangeEnd("2024-01-15", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 23, 59, 59, 999999999, time.UTC), end)

	exact, err := ParseRangeEnd("2024-01-15T10:00:00Z", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 10, exact.Hour())
}

func TestLoadLocation_FallsBack(t *testing.T) {
	assert.Contains(t, []string{DefaultTimezone, "UTC"}, loadLocation("Not/AZone").String())
	assert.Equal(t, "UTC", loadLocation("UTC").String())
}

// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	DateLayout      = "2006-01-02"
	DefaultTimezone = "Asia/Kolkata"
)

var (
	ledgerLocOnce sync.Once
	ledgerLoc     *time.Location
)

// LedgerLocation is the location whose calendar days the ledger reports in.
// 1) LEDGER_TIMEZONE
// 2) Asia/Kolkata
// 3) UTC
func LedgerLocation() *time.Location {
	ledgerLocOnce.Do(func() {
		ledgerLoc = loadLocation(os.Getenv("LEDGER_TIMEZONE"))
	})
	return ledgerLoc
}

func loadLocation(name string) *time.Location {
	if name = strings.TrimSpace(name); name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}

// DayOf returns the YYYY-MM-DD calendar day of t in loc.
func DayOf(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}

// ParseDate accepts "2006-01-02" (midnight in loc) or RFC3339.
// dateOnly reports which form matched.
func ParseDate(s string, loc *time.Location) (t time.Time, dateOnly bool, err error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.UTC
	}
	if d, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return d, true, nil
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, false, nil
	}
	return time.Time{}, false, fmt.Errorf("invalid date %q (want YYYY-MM-DD or RFC3339)", s)
}

// ParseRangeEnd parses an inclusive upper bound. A bare date covers the whole
// day, so the returned instant is the last nanosecond of that day.
func ParseRangeEnd(s string, loc *time.Location) (time.Time, error) {
	t, dateOnly, err := ParseDate(s, loc)
	if err != nil {
		return t, err
	}
	if dateOnly {
		return t.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
	}
	return t, nil
}

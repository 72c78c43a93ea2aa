// Package dateutil converts calendar dates into half-open UTC time ranges.
package dateutil

import (
	"time"
)

// Layout is the wire format for calendar dates (YYYY-MM-DD).
const Layout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date as midnight in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(Layout, value, loc)
}

// DayBounds returns [start, end) of the calendar day containing t in loc,
// converted to UTC for comparison against stored timestamps.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return start.UTC(), end.UTC()
}

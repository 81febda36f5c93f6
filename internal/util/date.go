package util

import (
	"fmt"
	"time"
)

// startDateLayout is the CLI date format, day first.
const startDateLayout = "02/01/2006"

// defaultIntervalDays is the pagination window size used when the caller
// does not specify one. It matches the widest window the history endpoints
// accept per request.
const defaultIntervalDays = 30

// ParseStartDate parses a DD/MM/YYYY date string.
func ParseStartDate(s string) (time.Time, error) {
	t, err := time.Parse(startDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected DD/MM/YYYY: %w", s, err)
	}
	return t, nil
}

// DaysBetween returns the number of whole calendar days from start to now,
// comparing dates rather than instants.
func DaysBetween(start, now time.Time) int {
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(nowDay.Sub(startDay).Hours() / 24)
}

// ResolveInterval picks the effective pagination interval: the requested
// value, or the default when unset, never exceeding the period itself.
func ResolveInterval(requested, periodDays int) int {
	interval := requested
	if interval == 0 {
		interval = defaultIntervalDays
	}
	if interval > periodDays {
		interval = periodDays
	}
	return interval
}

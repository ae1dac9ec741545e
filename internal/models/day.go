package models

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

const Day = 24 * time.Hour

// DayStart returns UTC midnight of the calendar day containing t.
func DayStart(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayRange returns the half-open UTC interval [start, end) covering t's day.
func DayRange(t time.Time) (time.Time, time.Time) {
	start := DayStart(t)
	return start, start.Add(Day)
}

// ParseDate parses a YYYY-MM-DD date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidInput, s)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

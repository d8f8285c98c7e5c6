// Package period resolves calendar ranges (day, ISO week, month) and parses
// and formats the date strings used across the API.
package period

import (
	"fmt"
	"strings"
	"time"
)

// Layouts used on the wire and in storage.
const (
	DateLayout    = "2006-01-02"
	LongLayout    = "January 2, 2006"
	DisplayLayout = "Monday, January 2, 2006"
)

// Range is an inclusive [Start, End] interval. End is the last nanosecond of
// the final day.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within r, inclusive on both ends.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// StartOfDay returns 00:00:00 of the day containing t, in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last nanosecond of the day containing t.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// Day returns the range of the calendar day containing t.
func Day(t time.Time) Range {
	return Range{Start: StartOfDay(t), End: EndOfDay(t)}
}

// Week returns Monday 00:00 through Sunday end-of-day of the week containing t.
func Week(t time.Time) Range {
	// Go's weekday: Sunday=0, Monday=1, …, Saturday=6
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	monday := StartOfDay(t.AddDate(0, 0, -(wd - 1)))
	return Range{Start: monday, End: EndOfDay(monday.AddDate(0, 0, 6))}
}

// Month returns the first through the last calendar day of t's month.
func Month(t time.Time) Range {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return Range{Start: first, End: first.AddDate(0, 1, 0).Add(-time.Nanosecond)}
}

// FormatDate formats t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatLong formats t as "March 11, 2024".
func FormatLong(t time.Time) string {
	return t.Format(LongLayout)
}

// ParseDate accepts YYYY-MM-DD (interpreted in loc) or an RFC 3339 timestamp
// (converted to loc). An empty string is an error; callers decide defaults.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("period: empty date")
	}
	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(loc), nil
	}
	return time.Time{}, fmt.Errorf("period: cannot parse date %q (want YYYY-MM-DD or RFC 3339)", s)
}

// ParseBound parses a range bound. A bare date is widened to the start of the
// day when end is false and to the end of the day when end is true, so that
// "2024-03-11..2024-03-17" covers both whole days. Timestamps are kept as is.
func ParseBound(s string, end bool, loc *time.Location) (time.Time, error) {
	t, err := ParseDate(s, loc)
	if err != nil {
		return time.Time{}, err
	}
	if _, derr := time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc); derr == nil && end {
		return EndOfDay(t), nil
	}
	return t, nil
}

// DayKey returns the YYYY-MM-DD key of t's calendar day in loc.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

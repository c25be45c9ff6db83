package ohmycash

import (
	"fmt"
	"time"
)

// DateLayout is the day.month.year form used by the bank and by the cache file names
const DateLayout = "02.01.2006"

// ParseDate parses a DD.MM.YYYY string into UTC midnight
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}

	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Day drops the clock part of t, keeping the calendar date as seen in t's location
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current local calendar date
func Today() time.Time {
	return Day(time.Now())
}

// IsValidPastDate reports whether s parses as DD.MM.YYYY and is not after today
func IsValidPastDate(s string) bool {
	return IsValidPastDateAt(s, time.Now())
}

// IsValidPastDateAt is IsValidPastDate with today taken as the calendar date of now in its location
func IsValidPastDateAt(s string, now time.Time) bool {
	t, err := ParseDate(s)
	if err != nil {
		return false
	}

	return !t.After(Day(now))
}

// DatesBetween expands start and end into every calendar date between them, both included,
// in ascending order. A start after end yields an empty list
func DatesBetween(start, end string) ([]string, error) {
	from, err := ParseDate(start)
	if err != nil {
		return nil, fmt.Errorf("%w: start: %v", ErrInvalidRange, err)
	}

	to, err := ParseDate(end)
	if err != nil {
		return nil, fmt.Errorf("%w: end: %v", ErrInvalidRange, err)
	}

	dates := make([]string, 0)
	for curr := from; !curr.After(to); curr = curr.AddDate(0, 0, 1) {
		dates = append(dates, FormatDate(curr))
	}

	return dates, nil
}

// Package window computes which work dates are currently open for signup.
//
// The window walks forward from the present day: before 11am local time it
// starts at tomorrow, from 11am onward the nearest date rolls over to the
// day after tomorrow. Dates near the cutoff are labelled so operators can
// see when they stop being available.
package window

import (
	"fmt"
	"time"
)

const (
	// DateKey is the canonical yyyy-mm-dd layout used for partition keys,
	// daily sheet titles and wire payloads.
	DateKey = "2006-01-02"

	// labelLayout is the human form shown on tablet date buttons.
	labelLayout = "Monday, 01/02"

	// cutoffHour closes the nearest open date at 11am local time.
	cutoffHour = 11

	// DefaultDays is how many consecutive dates the window keeps open.
	DefaultDays = 31
)

// startOffset is the distance in days from today to the first open date.
func startOffset(now time.Time) int {
	if now.Hour() < cutoffHour {
		return 1
	}
	return 2
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// OpenDates returns the open signup dates at now, nearest first. The slice
// always holds days entries regardless of where the cutoff falls.
func OpenDates(now time.Time, days int) []time.Time {
	if days <= 0 {
		days = DefaultDays
	}
	today := midnight(now)
	start := startOffset(now)

	dates := make([]time.Time, 0, days)
	for i := 0; i < days; i++ {
		dates = append(dates, today.AddDate(0, 0, start+i))
	}
	return dates
}

// Contains reports whether date falls inside the window open at now.
func Contains(now time.Time, days int, date time.Time) bool {
	if days <= 0 {
		days = DefaultDays
	}
	today := midnight(now)
	first := today.AddDate(0, 0, startOffset(now))
	last := today.AddDate(0, 0, startOffset(now)+days-1)

	d := midnight(date)
	return !d.Before(first) && !d.After(last)
}

// DisplayLabel renders the button label for an open date. The date nearest
// the cutoff carries an "Available until 11am" notice: tomorrow when the
// cutoff has not passed, the day after tomorrow once it has.
func DisplayLabel(now, date time.Time) string {
	today := midnight(now)
	d := midnight(date)

	if now.Hour() < cutoffHour {
		if d.Equal(today.AddDate(0, 0, 1)) {
			return fmt.Sprintf("Tomorrow - %s\nAvailable until 11am", d.Format(labelLayout))
		}
	} else if d.Equal(today.AddDate(0, 0, 2)) {
		return fmt.Sprintf("%s - Available until 11am", d.Format(labelLayout))
	}
	return d.Format(labelLayout)
}

// Key returns the canonical yyyy-mm-dd form of a date.
func Key(date time.Time) string {
	return date.Format(DateKey)
}

// ParseKey parses a canonical yyyy-mm-dd value in the given location.
func ParseKey(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateKey, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

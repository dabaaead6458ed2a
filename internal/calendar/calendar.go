// Package calendar owns every conversion between wall-clock instants and
// calendar days. No other package parses or formats dates; keeping the
// "one instant, one local calendar day" interpretation in a single place is
// what makes the one-check-in-per-day and streak rules hold together.
package calendar

import (
	"fmt"
	"time"
)

const (
	// KeyLayout is the canonical day key, e.g. "2025-04-09".
	KeyLayout = "2006-01-02"
	// ClockLayout is the canonical time-of-day, e.g. "09:00".
	ClockLayout = "15:04"
)

// Day is a single calendar day with the time-of-day discarded.
// Internally it is midnight UTC of the civil date, so day arithmetic is a
// plain 24h multiple and never crosses a DST boundary.
type Day struct {
	t time.Time
}

// DayOf returns the calendar day an instant falls on, in the instant's own
// location. Two instants on the same local date always map to the same Day.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current local calendar day.
func Today() Day {
	return DayOf(time.Now())
}

// ParseKey parses a canonical "YYYY-MM-DD" key back into a Day.
func ParseKey(key string) (Day, error) {
	t, err := time.ParseInLocation(KeyLayout, key, time.UTC)
	if err != nil {
		return Day{}, fmt.Errorf("invalid day key %q: %w", key, err)
	}
	return Day{t}, nil
}

// Key returns the canonical "YYYY-MM-DD" identity used for equality and lookup.
func (d Day) Key() string {
	return d.t.Format(KeyLayout)
}

// AddDays returns the day n calendar days after d (n may be negative).
func (d Day) AddDays(n int) Day {
	return Day{d.t.AddDate(0, 0, n)}
}

// Before reports whether d is strictly earlier than other.
func (d Day) Before(other Day) bool {
	return d.t.Before(other.t)
}

// After reports whether d is strictly later than other.
func (d Day) After(other Day) bool {
	return d.t.After(other.t)
}

// Equal reports whether two values name the same calendar day.
func (d Day) Equal(other Day) bool {
	return d.t.Equal(other.t)
}

// DayDiff returns the number of calendar days from a to b. Negative when b
// is earlier than a.
func DayDiff(a, b Day) int {
	return int(b.t.Sub(a.t) / (24 * time.Hour))
}

// MinuteOf formats an instant's local time-of-day as "HH:MM". The reminder
// scheduler compares this against a plan's configured reminder time.
func MinuteOf(t time.Time) string {
	return t.Format(ClockLayout)
}

// ValidClockTime reports whether s is a well-formed "HH:MM" time-of-day.
func ValidClockTime(s string) bool {
	_, err := time.Parse(ClockLayout, s)
	return err == nil && len(s) == len(ClockLayout)
}

package calendar_test

import (
	"testing"
	"time"

	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/calendar"
)

func TestDayOfIgnoresTimeOfDay(t *testing.T) {
	t.Parallel()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	morning := calendar.DayOf(time.Date(2026, 3, 8, 0, 30, 0, 0, loc))
	night := calendar.DayOf(time.Date(2026, 3, 8, 23, 59, 59, 0, loc))
	if !morning.Equal(night) {
		t.Fatalf("expected same day for two instants on the same local date: %s vs %s", morning.Key(), night.Key())
	}
	if morning.Key() != "2026-03-08" {
		t.Fatalf("expected key 2026-03-08, got %s", morning.Key())
	}
}

func TestAddDaysAcrossMonthAndDST(t *testing.T) {
	t.Parallel()
	day, err := calendar.ParseKey("2026-02-27")
	if err != nil {
		t.Fatalf("parse key: %v", err)
	}
	if got := day.AddDays(2).Key(); got != "2026-03-01" {
		t.Fatalf("expected 2026-03-01, got %s", got)
	}

	// 2026-03-08 is a US DST transition; day arithmetic must not be skewed
	// by the missing hour.
	dstEve, _ := calendar.ParseKey("2026-03-07")
	if got := dstEve.AddDays(1).Key(); got != "2026-03-08" {
		t.Fatalf("expected 2026-03-08, got %s", got)
	}
	if got := dstEve.AddDays(2).Key(); got != "2026-03-09" {
		t.Fatalf("expected 2026-03-09, got %s", got)
	}
}

func TestDayDiff(t *testing.T) {
	t.Parallel()
	tests := []struct {
		a, b string
		want int
	}{
		{"2026-01-01", "2026-01-01", 0},
		{"2026-01-01", "2026-01-11", 10},
		{"2026-01-11", "2026-01-01", -10},
		{"2025-12-31", "2026-01-01", 1},
	}
	for _, tc := range tests {
		a, _ := calendar.ParseKey(tc.a)
		b, _ := calendar.ParseKey(tc.b)
		if got := calendar.DayDiff(a, b); got != tc.want {
			t.Fatalf("DayDiff(%s, %s) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestParseKeyRejectsGarbage(t *testing.T) {
	t.Parallel()
	for _, bad := range []string{"", "2026-13-01", "01/02/2026", "2026-1-2"} {
		if _, err := calendar.ParseKey(bad); err == nil {
			t.Fatalf("expected error for key %q", bad)
		}
	}
}

func TestMinuteOf(t *testing.T) {
	t.Parallel()
	at := time.Date(2026, 5, 1, 9, 5, 42, 0, time.UTC)
	if got := calendar.MinuteOf(at); got != "09:05" {
		t.Fatalf("expected 09:05, got %s", got)
	}
}

func TestValidClockTime(t *testing.T) {
	t.Parallel()
	valid := []string{"00:00", "09:00", "23:59"}
	invalid := []string{"", "9:00", "24:00", "12:60", "12:00:00", "noon"}
	for _, s := range valid {
		if !calendar.ValidClockTime(s) {
			t.Fatalf("expected %q to be valid", s)
		}
	}
	for _, s := range invalid {
		if calendar.ValidClockTime(s) {
			t.Fatalf("expected %q to be invalid", s)
		}
	}
}

// Package progress derives streaks, adherence and summary figures from a
// plan and its check-in ledger. Everything here is a pure computation over
// inputs; nothing is persisted, so results can never go stale independently
// of the ledger.
package progress

import (
	"fmt"
	"math"

	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/calendar"
	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/domain"
)

// Snapshot computes the derived progress figures for a plan as of the given
// day (normally today).
//
// ElapsedDays counts day one of the plan as one elapsed day, floored at 1 so
// a plan whose start date sits in the future still reads sanely.
// AdherencePercent is clamped to 100: completed days can never validly
// exceed elapsed days under the one-per-day rule, but the clamp protects
// against upstream inconsistencies such as an edited start date.
func Snapshot(plan *domain.Plan, checkins []domain.CheckIn, today calendar.Day) (domain.ProgressSnapshot, error) {
	start, err := calendar.ParseKey(plan.StartDate)
	if err != nil {
		return domain.ProgressSnapshot{}, fmt.Errorf("plan %s: %w", plan.ID.Hex(), err)
	}

	elapsed := calendar.DayDiff(start, today) + 1
	if elapsed < 1 {
		elapsed = 1
	}

	completed := 0
	followedByDate := make(map[string]bool, len(checkins))
	for _, c := range checkins {
		followedByDate[c.Date] = c.FollowedSteps
		if c.FollowedSteps {
			completed++
		}
	}

	adherence := int(math.Round(float64(completed) / float64(elapsed) * 100))
	if adherence > 100 {
		adherence = 100
	}

	return domain.ProgressSnapshot{
		ElapsedDays:      elapsed,
		CompletedDays:    completed,
		AdherencePercent: adherence,
		CurrentStreak:    currentStreak(followedByDate, today),
	}, nil
}

// currentStreak walks backward from today one day at a time. Each day must
// have a check-in for that exact date with followedSteps true; the first day
// that fails ends the streak. A day with no check-in yet counts as a break,
// including today itself.
func currentStreak(followedByDate map[string]bool, today calendar.Day) int {
	streak := 0
	for day := today; ; day = day.AddDays(-1) {
		followed, ok := followedByDate[day.Key()]
		if !ok || !followed {
			break
		}
		streak++
	}
	return streak
}

package progress

import (
	"math"
	"sort"

	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/calendar"
	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/domain"
)

// Static closing suggestions. Deliberately template-independent and computed
// without any external call; the AI coach is a separate, optional surface.
var summarySuggestions = []string{
	"Keep the daily check-in habit going even after the plan ends",
	"Reflect on which days broke your streak and what triggered them",
	"Share your result with someone who supported you",
	"Consider starting a follow-up plan with a longer duration",
}

// Summary computes the closing aggregate for a plan. It is meaningful once
// the plan is completed but may be computed earlier, in which case it simply
// reflects partial progress.
func Summary(plan *domain.Plan, checkins []domain.CheckIn) domain.SummaryReport {
	completed := 0
	for _, c := range checkins {
		if c.FollowedSteps {
			completed++
		}
	}

	total := plan.DurationDays
	divisor := total
	if divisor < 1 {
		divisor = 1
	}
	successRate := int(math.Round(float64(completed) / float64(divisor) * 100))

	return domain.SummaryReport{
		SuccessRatePercent: successRate,
		LongestStreak:      longestStreak(checkins),
		CompletedDays:      completed,
		TotalDays:          total,
		Suggestions:        summarySuggestions,
	}
}

// longestStreak finds the longest run of consecutive calendar days with a
// followed check-in. A gap of exactly one day continues a run; any other gap
// starts a new run of length 1. Zero when no followed check-ins exist.
func longestStreak(checkins []domain.CheckIn) int {
	var days []calendar.Day
	for _, c := range checkins {
		if !c.FollowedSteps {
			continue
		}
		day, err := calendar.ParseKey(c.Date)
		if err != nil {
			continue // Malformed ledger rows are skipped, not fatal
		}
		days = append(days, day)
	}
	if len(days) == 0 {
		return 0
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if calendar.DayDiff(days[i-1], days[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

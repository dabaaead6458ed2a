package progress_test

import (
	"testing"

	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/domain"
	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/progress"
)

func TestSummaryLongestStreakAcrossGap(t *testing.T) {
	t.Parallel()
	// Days 1,2 then a gap then 4,5,6: the longest run is the three-day one.
	checkins := checkinsOn(map[string]bool{
		"2026-05-01": true,
		"2026-05-02": true,
		"2026-05-04": true,
		"2026-05-05": true,
		"2026-05-06": true,
	})

	report := progress.Summary(testPlan("2026-05-01", 10), checkins)
	if report.LongestStreak != 3 {
		t.Fatalf("expected longest streak 3, got %d", report.LongestStreak)
	}
	if report.CompletedDays != 5 {
		t.Fatalf("expected 5 completed days, got %d", report.CompletedDays)
	}
	if report.SuccessRatePercent != 50 {
		t.Fatalf("expected success rate 50, got %d", report.SuccessRatePercent)
	}
	if report.TotalDays != 10 {
		t.Fatalf("expected 10 total days, got %d", report.TotalDays)
	}
}

func TestSummaryIgnoresNotFollowedDays(t *testing.T) {
	t.Parallel()
	// A false day neither counts as completed nor bridges a streak.
	checkins := checkinsOn(map[string]bool{
		"2026-05-01": true,
		"2026-05-02": false,
		"2026-05-03": true,
	})

	report := progress.Summary(testPlan("2026-05-01", 3), checkins)
	if report.LongestStreak != 1 {
		t.Fatalf("expected longest streak 1, got %d", report.LongestStreak)
	}
	if report.CompletedDays != 2 {
		t.Fatalf("expected 2 completed days, got %d", report.CompletedDays)
	}
	if report.SuccessRatePercent != 67 {
		t.Fatalf("expected success rate 67, got %d", report.SuccessRatePercent)
	}
}

func TestSummaryEmptyLedger(t *testing.T) {
	t.Parallel()
	report := progress.Summary(testPlan("2026-05-01", 7), nil)
	if report.LongestStreak != 0 {
		t.Fatalf("expected longest streak 0, got %d", report.LongestStreak)
	}
	if report.CompletedDays != 0 || report.SuccessRatePercent != 0 {
		t.Fatalf("expected zero completed and zero rate, got %d and %d", report.CompletedDays, report.SuccessRatePercent)
	}
	if len(report.Suggestions) == 0 {
		t.Fatal("expected suggestions even for an empty ledger")
	}
}

func TestSummarySkipsMalformedDates(t *testing.T) {
	t.Parallel()
	checkins := []domain.CheckIn{
		{Date: "2026-05-01", FollowedSteps: true},
		{Date: "garbage", FollowedSteps: true},
		{Date: "2026-05-02", FollowedSteps: true},
	}
	report := progress.Summary(testPlan("2026-05-01", 5), checkins)
	if report.LongestStreak != 2 {
		t.Fatalf("expected longest streak 2, got %d", report.LongestStreak)
	}
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/catalog"
	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/domain"
	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/repository/memory"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// newTestPlanService wires the service against the in-memory repository with
// a controllable clock. Mutate *now to move the calendar forward.
func newTestPlanService(t *testing.T, start time.Time) (*planService, *time.Time) {
	t.Helper()
	now := start
	svc := NewPlanService(memory.NewPlanRepository(), catalog.Default()).(*planService)
	svc.now = func() time.Time { return now }
	return svc, &now
}

func TestCreatePlanResolvesTemplateDuration(t *testing.T) {
	svc, _ := newTestPlanService(t, time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC))
	owner := primitive.NewObjectID()

	plan, err := svc.CreatePlan(context.Background(), owner, "sugar_reduction", 0, "09:00")
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}
	if plan.DurationDays != 21 {
		t.Fatalf("expected template duration 21, got %d", plan.DurationDays)
	}
	if plan.StartDate != "2026-06-01" {
		t.Fatalf("expected start 2026-06-01, got %s", plan.StartDate)
	}
	if plan.EndDate != "2026-06-22" {
		t.Fatalf("expected end 2026-06-22, got %s", plan.EndDate)
	}
	if plan.Status != domain.PlanStatusActive {
		t.Fatalf("expected active status, got %s", plan.Status)
	}
}

func TestCreatePlanExplicitDurationWins(t *testing.T) {
	svc, _ := newTestPlanService(t, time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC))

	plan, err := svc.CreatePlan(context.Background(), primitive.NewObjectID(), "alcohol_free", 10, "21:30")
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}
	if plan.DurationDays != 10 {
		t.Fatalf("expected duration 10, got %d", plan.DurationDays)
	}
}

func TestCreatePlanValidation(t *testing.T) {
	svc, _ := newTestPlanService(t, time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()
	owner := primitive.NewObjectID()

	if _, err := svc.CreatePlan(ctx, owner, "no_such_template", 7, "09:00"); !errors.Is(err, ErrInvalidTemplate) {
		t.Fatalf("expected ErrInvalidTemplate, got %v", err)
	}
	if _, err := svc.CreatePlan(ctx, owner, "sugar_reduction", 7, "9am"); !errors.Is(err, ErrInvalidReminderTime) {
		t.Fatalf("expected ErrInvalidReminderTime, got %v", err)
	}

	// A template without a usable suggested duration cannot back a default.
	svc.catalog = catalog.New([]domain.PlanTemplate{{Key: "broken", Name: "Broken"}})
	if _, err := svc.CreatePlan(ctx, owner, "broken", 0, "09:00"); !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
}

func TestRecordCheckInSameDayOverwrites(t *testing.T) {
	svc, _ := newTestPlanService(t, time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()
	owner := primitive.NewObjectID()

	plan, err := svc.CreatePlan(ctx, owner, "caffeine_cut", 0, "08:00")
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}

	first, err := svc.RecordCheckIn(ctx, owner, plan.ID, true, "went fine")
	if err != nil {
		t.Fatalf("first check-in: %v", err)
	}
	second, err := svc.RecordCheckIn(ctx, owner, plan.ID, false, "relapsed after lunch")
	if err != nil {
		t.Fatalf("second check-in: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("expected same ledger row, got %s then %s", first.ID.Hex(), second.ID.Hex())
	}
	if second.FollowedSteps {
		t.Fatal("expected second answer to overwrite the first")
	}
	if second.Notes != "relapsed after lunch" {
		t.Fatalf("expected overwritten notes, got %q", second.Notes)
	}

	snap, err := svc.GetProgress(ctx, owner, plan.ID)
	if err != nil {
		t.Fatalf("get progress: %v", err)
	}
	if snap.CompletedDays != 0 {
		t.Fatalf("expected 0 completed days after overwrite, got %d", snap.CompletedDays)
	}
}

func TestCheckInDateFollowsClock(t *testing.T) {
	svc, now := newTestPlanService(t, time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()
	owner := primitive.NewObjectID()

	plan, err := svc.CreatePlan(ctx, owner, "screen_time", 0, "20:00")
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}

	if _, err := svc.RecordCheckIn(ctx, owner, plan.ID, true, ""); err != nil {
		t.Fatalf("day 1 check-in: %v", err)
	}
	*now = now.AddDate(0, 0, 1)
	checkin, err := svc.RecordCheckIn(ctx, owner, plan.ID, true, "")
	if err != nil {
		t.Fatalf("day 2 check-in: %v", err)
	}
	if checkin.Date != "2026-06-02" {
		t.Fatalf("expected date 2026-06-02, got %s", checkin.Date)
	}

	snap, err := svc.GetProgress(ctx, owner, plan.ID)
	if err != nil {
		t.Fatalf("get progress: %v", err)
	}
	if snap.CompletedDays != 2 || snap.CurrentStreak != 2 {
		t.Fatalf("expected 2 completed and streak 2, got %d and %d", snap.CompletedDays, snap.CurrentStreak)
	}
}

func TestPlanCompletesAtEndDate(t *testing.T) {
	svc, now := newTestPlanService(t, time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()
	owner := primitive.NewObjectID()

	plan, err := svc.CreatePlan(ctx, owner, "caffeine_cut", 7, "08:00")
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}

	// One day before the end date the plan is still the active one.
	*now = now.AddDate(0, 0, 6)
	active, err := svc.GetActivePlan(ctx, owner, "")
	if err != nil {
		t.Fatalf("get active plan: %v", err)
	}
	if active == nil || active.ID != plan.ID {
		t.Fatal("expected the plan to still be active on its last day")
	}

	// On the end date reconciliation flips it to completed.
	*now = now.AddDate(0, 0, 1)
	active, err = svc.GetActivePlan(ctx, owner, "")
	if err != nil {
		t.Fatalf("get active plan: %v", err)
	}
	if active != nil {
		t.Fatalf("expected no active plan past the end date, got %s", active.ID.Hex())
	}

	stored, err := svc.planRepo.GetByID(ctx, plan.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if stored.Status != domain.PlanStatusCompleted {
		t.Fatalf("expected completed status, got %s", stored.Status)
	}

	// Reconciliation is idempotent.
	if _, err := svc.GetActivePlan(ctx, owner, ""); err != nil {
		t.Fatalf("second reconcile: %v", err)
	}
}

func TestGetActivePlanPrefersNewest(t *testing.T) {
	svc, _ := newTestPlanService(t, time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()
	owner := primitive.NewObjectID()

	first, err := svc.CreatePlan(ctx, owner, "sugar_reduction", 0, "09:00")
	if err != nil {
		t.Fatalf("create first plan: %v", err)
	}
	if _, err := svc.ClosePlan(ctx, first.ID); err != nil {
		t.Fatalf("close first plan: %v", err)
	}
	second, err := svc.CreatePlan(ctx, owner, "sugar_reduction", 0, "09:00")
	if err != nil {
		t.Fatalf("create second plan: %v", err)
	}

	active, err := svc.GetActivePlan(ctx, owner, "sugar_reduction")
	if err != nil {
		t.Fatalf("get active plan: %v", err)
	}
	if active == nil || active.ID != second.ID {
		t.Fatal("expected the newer plan to be the active one")
	}
}

func TestOwnershipHidesForeignPlans(t *testing.T) {
	svc, _ := newTestPlanService(t, time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	plan, err := svc.CreatePlan(ctx, owner, "alcohol_free", 0, "19:00")
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}

	if _, err := svc.RecordCheckIn(ctx, stranger, plan.ID, true, ""); !errors.Is(err, ErrPlanNotFound) {
		t.Fatalf("expected ErrPlanNotFound for foreign check-in, got %v", err)
	}
	if _, err := svc.GetProgress(ctx, stranger, plan.ID); !errors.Is(err, ErrPlanNotFound) {
		t.Fatalf("expected ErrPlanNotFound for foreign progress, got %v", err)
	}
	if err := svc.DeletePlan(ctx, stranger, plan.ID); !errors.Is(err, ErrPlanNotFound) {
		t.Fatalf("expected ErrPlanNotFound for foreign delete, got %v", err)
	}
}

func TestDeletePlanRemovesLedger(t *testing.T) {
	svc, _ := newTestPlanService(t, time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()
	owner := primitive.NewObjectID()

	plan, err := svc.CreatePlan(ctx, owner, "screen_time", 0, "18:00")
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}
	if _, err := svc.RecordCheckIn(ctx, owner, plan.ID, true, ""); err != nil {
		t.Fatalf("check-in: %v", err)
	}

	if err := svc.DeletePlan(ctx, owner, plan.ID); err != nil {
		t.Fatalf("delete plan: %v", err)
	}
	if _, err := svc.GetProgress(ctx, owner, plan.ID); !errors.Is(err, ErrPlanNotFound) {
		t.Fatalf("expected ErrPlanNotFound after delete, got %v", err)
	}
}

func TestClosePlanIsIdempotent(t *testing.T) {
	svc, _ := newTestPlanService(t, time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	plan, err := svc.CreatePlan(ctx, primitive.NewObjectID(), "smoking_cessation", 0, "07:00")
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}

	closed, err := svc.ClosePlan(ctx, plan.ID)
	if err != nil {
		t.Fatalf("close plan: %v", err)
	}
	if closed.Status != domain.PlanStatusCompleted {
		t.Fatalf("expected completed, got %s", closed.Status)
	}
	again, err := svc.ClosePlan(ctx, plan.ID)
	if err != nil {
		t.Fatalf("second close: %v", err)
	}
	if again.Status != domain.PlanStatusCompleted {
		t.Fatalf("expected completed on second close, got %s", again.Status)
	}

	if _, err := svc.ClosePlan(ctx, primitive.NewObjectID()); !errors.Is(err, ErrPlanNotFound) {
		t.Fatalf("expected ErrPlanNotFound for unknown plan, got %v", err)
	}
}

func TestGetSummaryCountsAgainstPlanDuration(t *testing.T) {
	svc, now := newTestPlanService(t, time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()
	owner := primitive.NewObjectID()

	plan, err := svc.CreatePlan(ctx, owner, "caffeine_cut", 4, "08:00")
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := svc.RecordCheckIn(ctx, owner, plan.ID, true, ""); err != nil {
			t.Fatalf("check-in %d: %v", i+1, err)
		}
		*now = now.AddDate(0, 0, 1)
	}

	report, err := svc.GetSummary(ctx, owner, plan.ID)
	if err != nil {
		t.Fatalf("get summary: %v", err)
	}
	if report.TotalDays != 4 || report.CompletedDays != 3 {
		t.Fatalf("expected 3/4 days, got %d/%d", report.CompletedDays, report.TotalDays)
	}
	if report.SuccessRatePercent != 75 {
		t.Fatalf("expected success rate 75, got %d", report.SuccessRatePercent)
	}
	if report.LongestStreak != 3 {
		t.Fatalf("expected longest streak 3, got %d", report.LongestStreak)
	}
}

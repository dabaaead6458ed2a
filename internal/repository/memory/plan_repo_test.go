package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/domain"
	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/repository"
	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/repository/memory"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newPlan(ownerID primitive.ObjectID, templateKey string) *domain.Plan {
	return &domain.Plan{
		OwnerID:      ownerID,
		TemplateKey:  templateKey,
		StartDate:    "2026-07-01",
		EndDate:      "2026-07-22",
		DurationDays: 21,
		ReminderTime: "09:00",
		Status:       domain.PlanStatusActive,
	}
}

func TestUpsertCheckInKeepsOneRowPerDay(t *testing.T) {
	t.Parallel()
	repo := memory.NewPlanRepository()
	ctx := context.Background()

	plan := newPlan(primitive.NewObjectID(), "sugar_reduction")
	planID, err := repo.Create(ctx, plan)
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}

	first, err := repo.UpsertCheckIn(ctx, &domain.CheckIn{PlanID: planID, Date: "2026-07-01", FollowedSteps: true, Notes: "ok"})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second, err := repo.UpsertCheckIn(ctx, &domain.CheckIn{PlanID: planID, Date: "2026-07-01", FollowedSteps: false, Notes: "slipped"})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("expected upsert to reuse the row, got %s then %s", first.ID.Hex(), second.ID.Hex())
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatal("expected CreatedAt to survive the overwrite")
	}
	if second.FollowedSteps || second.Notes != "slipped" {
		t.Fatalf("expected overwritten fields, got followed=%v notes=%q", second.FollowedSteps, second.Notes)
	}

	checkins, err := repo.ListCheckIns(ctx, planID)
	if err != nil {
		t.Fatalf("list check-ins: %v", err)
	}
	if len(checkins) != 1 {
		t.Fatalf("expected a single ledger row, got %d", len(checkins))
	}
}

func TestListCheckInsSortedByDate(t *testing.T) {
	t.Parallel()
	repo := memory.NewPlanRepository()
	ctx := context.Background()

	planID, err := repo.Create(ctx, newPlan(primitive.NewObjectID(), "sugar_reduction"))
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}
	for _, date := range []string{"2026-07-03", "2026-07-01", "2026-07-02"} {
		if _, err := repo.UpsertCheckIn(ctx, &domain.CheckIn{PlanID: planID, Date: date, FollowedSteps: true}); err != nil {
			t.Fatalf("upsert %s: %v", date, err)
		}
	}

	checkins, err := repo.ListCheckIns(ctx, planID)
	if err != nil {
		t.Fatalf("list check-ins: %v", err)
	}
	want := []string{"2026-07-01", "2026-07-02", "2026-07-03"}
	for i, date := range want {
		if checkins[i].Date != date {
			t.Fatalf("expected %s at index %d, got %s", date, i, checkins[i].Date)
		}
	}
}

func TestGetByOwnerFiltersAndScopes(t *testing.T) {
	t.Parallel()
	repo := memory.NewPlanRepository()
	ctx := context.Background()
	owner := primitive.NewObjectID()
	other := primitive.NewObjectID()

	if _, err := repo.Create(ctx, newPlan(owner, "sugar_reduction")); err != nil {
		t.Fatalf("create plan: %v", err)
	}
	if _, err := repo.Create(ctx, newPlan(owner, "alcohol_free")); err != nil {
		t.Fatalf("create plan: %v", err)
	}
	if _, err := repo.Create(ctx, newPlan(other, "sugar_reduction")); err != nil {
		t.Fatalf("create plan: %v", err)
	}

	all, err := repo.GetByOwner(ctx, owner, "")
	if err != nil {
		t.Fatalf("get by owner: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 plans for owner, got %d", len(all))
	}

	filtered, err := repo.GetByOwner(ctx, owner, "alcohol_free")
	if err != nil {
		t.Fatalf("get by owner filtered: %v", err)
	}
	if len(filtered) != 1 || filtered[0].TemplateKey != "alcohol_free" {
		t.Fatalf("expected the alcohol_free plan only, got %d plans", len(filtered))
	}
}

func TestDeleteRemovesPlanAndLedger(t *testing.T) {
	t.Parallel()
	repo := memory.NewPlanRepository()
	ctx := context.Background()
	owner := primitive.NewObjectID()

	planID, err := repo.Create(ctx, newPlan(owner, "sugar_reduction"))
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}
	if _, err := repo.UpsertCheckIn(ctx, &domain.CheckIn{PlanID: planID, Date: "2026-07-01", FollowedSteps: true}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if err := repo.Delete(ctx, planID, primitive.NewObjectID()); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign delete, got %v", err)
	}
	if err := repo.Delete(ctx, planID, owner); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, planID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	checkins, err := repo.ListCheckIns(ctx, planID)
	if err != nil {
		t.Fatalf("list check-ins: %v", err)
	}
	if len(checkins) != 0 {
		t.Fatalf("expected ledger to be removed with the plan, got %d rows", len(checkins))
	}
}

func TestListActiveExcludesCompleted(t *testing.T) {
	t.Parallel()
	repo := memory.NewPlanRepository()
	ctx := context.Background()

	activeID, err := repo.Create(ctx, newPlan(primitive.NewObjectID(), "sugar_reduction"))
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}
	doneID, err := repo.Create(ctx, newPlan(primitive.NewObjectID(), "alcohol_free"))
	if err != nil {
		t.Fatalf("create plan: %v", err)
	}
	if err := repo.SetStatus(ctx, doneID, domain.PlanStatusCompleted); err != nil {
		t.Fatalf("set status: %v", err)
	}

	plans, err := repo.ListActive(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(plans) != 1 || plans[0].ID != activeID {
		t.Fatalf("expected only the active plan, got %d plans", len(plans))
	}
}

package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubPlanSource struct {
	plans []domain.Plan
	err   error
}

func (s *stubPlanSource) ActivePlans(ctx context.Context) ([]domain.Plan, error) {
	return s.plans, s.err
}

type failNotifier struct {
	calls int
}

func (n *failNotifier) Notify(ctx context.Context, event PromptEvent) error {
	n.calls++
	return errors.New("push gateway unreachable")
}

func activePlan(reminderTime, endDate string) domain.Plan {
	return domain.Plan{
		ID:           primitive.NewObjectID(),
		OwnerID:      primitive.NewObjectID(),
		TemplateKey:  "sugar_reduction",
		StartDate:    "2026-07-01",
		EndDate:      endDate,
		DurationDays: 21,
		ReminderTime: reminderTime,
		Status:       domain.PlanStatusActive,
	}
}

func drainEvents(s *Scheduler) []PromptEvent {
	var out []PromptEvent
	for {
		select {
		case e := <-s.events:
			out = append(out, e)
		default:
			return out
		}
	}
}

func TestPollFiresOncePerDay(t *testing.T) {
	plan := activePlan("09:00", "2026-07-22")
	source := &stubPlanSource{plans: []domain.Plan{plan}}
	s := New(source, nil, nil, time.Minute)

	// Three polls land inside the matching minute; the day guard must
	// collapse them into a single prompt.
	at := time.Date(2026, 7, 10, 9, 0, 5, 0, time.UTC)
	s.now = func() time.Time { return at }
	for i := 0; i < 3; i++ {
		s.poll(context.Background())
		at = at.Add(15 * time.Second)
	}

	events := drainEvents(s)
	if len(events) != 1 {
		t.Fatalf("expected exactly 1 event, got %d", len(events))
	}
	e := events[0]
	if e.PlanID != plan.ID || e.Date != "2026-07-10" || e.Time != "09:00" {
		t.Fatalf("unexpected event %+v", e)
	}
	if e.ID == "" {
		t.Fatal("expected a non-empty event ID")
	}
}

func TestPollFiresAgainNextDay(t *testing.T) {
	plan := activePlan("09:00", "2026-07-22")
	source := &stubPlanSource{plans: []domain.Plan{plan}}
	s := New(source, nil, nil, time.Minute)

	at := time.Date(2026, 7, 10, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return at }
	s.poll(context.Background())

	at = at.AddDate(0, 0, 1)
	s.poll(context.Background())

	events := drainEvents(s)
	if len(events) != 2 {
		t.Fatalf("expected 2 events across two days, got %d", len(events))
	}
	if events[0].Date != "2026-07-10" || events[1].Date != "2026-07-11" {
		t.Fatalf("unexpected event dates %s, %s", events[0].Date, events[1].Date)
	}
}

func TestPollSkipsNonMatchingMinute(t *testing.T) {
	plan := activePlan("09:00", "2026-07-22")
	source := &stubPlanSource{plans: []domain.Plan{plan}}
	s := New(source, nil, nil, time.Minute)

	s.now = func() time.Time { return time.Date(2026, 7, 10, 9, 1, 0, 0, time.UTC) }
	s.poll(context.Background())

	if events := drainEvents(s); len(events) != 0 {
		t.Fatalf("expected no events outside the reminder minute, got %d", len(events))
	}
}

func TestPollRetiresPlansPastEndDate(t *testing.T) {
	plan := activePlan("09:00", "2026-07-08")
	source := &stubPlanSource{plans: []domain.Plan{plan}}
	fired := NewMemoryFiredStore()
	fired.MarkFired(plan.ID.Hex(), "2026-07-08")
	s := New(source, fired, nil, time.Minute)

	// Today is past the end date: no prompt, and the fired marker is dropped.
	s.now = func() time.Time { return time.Date(2026, 7, 9, 9, 0, 0, 0, time.UTC) }
	s.poll(context.Background())

	if events := drainEvents(s); len(events) != 0 {
		t.Fatalf("expected no events for a retired plan, got %d", len(events))
	}
	if _, ok := fired.LastFired(plan.ID.Hex()); ok {
		t.Fatal("expected fired marker to be forgotten for a retired plan")
	}
}

func TestPollStillFiresOnEndDate(t *testing.T) {
	// The end date itself is still inside the window.
	plan := activePlan("09:00", "2026-07-08")
	source := &stubPlanSource{plans: []domain.Plan{plan}}
	s := New(source, nil, nil, time.Minute)

	s.now = func() time.Time { return time.Date(2026, 7, 8, 9, 0, 0, 0, time.UTC) }
	s.poll(context.Background())

	if events := drainEvents(s); len(events) != 1 {
		t.Fatalf("expected 1 event on the end date, got %d", len(events))
	}
}

func TestNotifierFailureDoesNotSuppressEvent(t *testing.T) {
	plan := activePlan("09:00", "2026-07-22")
	source := &stubPlanSource{plans: []domain.Plan{plan}}
	notifier := &failNotifier{}
	s := New(source, nil, notifier, time.Minute)

	s.now = func() time.Time { return time.Date(2026, 7, 10, 9, 0, 0, 0, time.UTC) }
	s.poll(context.Background())

	if notifier.calls != 1 {
		t.Fatalf("expected exactly one delivery attempt, got %d", notifier.calls)
	}
	if events := drainEvents(s); len(events) != 1 {
		t.Fatalf("expected event despite notifier failure, got %d", len(events))
	}
}

func TestStartStopIdempotent(t *testing.T) {
	s := New(&stubPlanSource{}, nil, nil, time.Hour)
	s.Start()
	s.Start()
	s.Stop()
	s.Stop()

	// Restart after stop works.
	s.Start()
	s.Stop()
}

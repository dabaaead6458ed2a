// Package scheduler runs the recurring reminder loop: once per plan per
// calendar day, at the plan's configured reminder time, it raises a check-in
// prompt event. It never records check-ins itself; answering a prompt goes
// through the plan service.
package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/calendar"
	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/domain"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultPollInterval matches the once-a-minute granularity the reminder
// contract requires; sub-minute precision is not needed.
const DefaultPollInterval = time.Minute

// PlanSource supplies the active plans to poll. The plan service implements
// it; the scheduler needs plan metadata only.
type PlanSource interface {
	ActivePlans(ctx context.Context) ([]domain.Plan, error)
}

// PromptEvent is one raised check-in prompt for one plan on one day.
type PromptEvent struct {
	ID          string             `json:"id"`
	PlanID      primitive.ObjectID `json:"planId"`
	OwnerID     primitive.ObjectID `json:"ownerId"`
	TemplateKey string             `json:"templateKey"`
	Date        string             `json:"date"` // "YYYY-MM-DD"
	Time        string             `json:"time"` // "HH:MM"
}

// FiredStore tracks the last calendar day a prompt fired per plan, so a
// matching clock minute cannot re-fire within the same day no matter how
// often the poll loop runs. Injectable so persistence can be swapped.
type FiredStore interface {
	LastFired(planID string) (day string, ok bool)
	MarkFired(planID, day string)
	Forget(planID string)
}

// Notifier delivers a prompt out-of-process (push, email, ...). Delivery is
// best-effort with a single attempt; failure is logged, never fatal, and the
// in-process event is raised regardless.
type Notifier interface {
	Notify(ctx context.Context, event PromptEvent) error
}

// MemoryFiredStore is the default in-process FiredStore.
type MemoryFiredStore struct {
	mu    sync.Mutex
	fired map[string]string
}

func NewMemoryFiredStore() *MemoryFiredStore {
	return &MemoryFiredStore{fired: make(map[string]string)}
}

func (s *MemoryFiredStore) LastFired(planID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	day, ok := s.fired[planID]
	return day, ok
}

func (s *MemoryFiredStore) MarkFired(planID, day string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fired[planID] = day
}

func (s *MemoryFiredStore) Forget(planID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.fired, planID)
}

// LogNotifier just logs prompts; the default when no push channel is wired.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, event PromptEvent) error {
	log.Printf("Reminder prompt for plan %s (%s) on %s", event.PlanID.Hex(), event.TemplateKey, event.Date)
	return nil
}

// Scheduler polls active plans and raises at most one prompt per plan per
// calendar day. Start and Stop are idempotent and never leak the ticker
// goroutine.
type Scheduler struct {
	plans    PlanSource
	fired    FiredStore
	notifier Notifier
	interval time.Duration
	now      func() time.Time

	events chan PromptEvent

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a scheduler over the given plan source. fired and notifier may
// be nil, in which case the in-memory store and log notifier are used.
func New(plans PlanSource, fired FiredStore, notifier Notifier, interval time.Duration) *Scheduler {
	if fired == nil {
		fired = NewMemoryFiredStore()
	}
	if notifier == nil {
		notifier = LogNotifier{}
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Scheduler{
		plans:    plans,
		fired:    fired,
		notifier: notifier,
		interval: interval,
		now:      time.Now,
		events:   make(chan PromptEvent, 16),
	}
}

// Events exposes the raised prompt events.
func (s *Scheduler) Events() <-chan PromptEvent {
	return s.events
}

// Start launches the poll loop. Calling Start on a running scheduler is a
// no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(ctx, s.done)
	log.Printf("Reminder scheduler started (interval %s)", s.interval)
}

// Stop halts the poll loop and waits for it to exit. Safe to call repeatedly
// and before Start.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	log.Println("Reminder scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.poll(ctx)
		}
	}
}

// poll runs one scheduling pass: for every active plan whose end date has
// not passed, fire when the current minute matches the plan's reminder time
// and nothing has fired for that plan today.
func (s *Scheduler) poll(ctx context.Context) {
	plans, err := s.plans.ActivePlans(ctx)
	if err != nil {
		log.Printf("ERROR: reminder poll could not list active plans: %v", err)
		return
	}

	now := s.now()
	today := calendar.DayOf(now)
	minute := calendar.MinuteOf(now)

	for _, plan := range plans {
		end, err := calendar.ParseKey(plan.EndDate)
		if err != nil {
			log.Printf("WARN: plan %s has malformed end date %q, skipping", plan.ID.Hex(), plan.EndDate)
			continue
		}
		if today.After(end) {
			// Retired: the plan's window is over, drop its schedule state.
			s.fired.Forget(plan.ID.Hex())
			continue
		}
		if minute != plan.ReminderTime {
			continue
		}
		if last, ok := s.fired.LastFired(plan.ID.Hex()); ok && last == today.Key() {
			continue // Already prompted today
		}

		s.fired.MarkFired(plan.ID.Hex(), today.Key())
		event := PromptEvent{
			ID:          uuid.NewString(),
			PlanID:      plan.ID,
			OwnerID:     plan.OwnerID,
			TemplateKey: plan.TemplateKey,
			Date:        today.Key(),
			Time:        minute,
		}

		// One delivery attempt; a failed notification must not stop the
		// in-process prompt or future scheduling.
		if err := s.notifier.Notify(ctx, event); err != nil {
			log.Printf("WARN: reminder notification for plan %s failed: %v", plan.ID.Hex(), err)
		}

		select {
		case s.events <- event:
		default:
			log.Printf("WARN: prompt event channel full, dropping event for plan %s", plan.ID.Hex())
		}
	}
}

package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/calendar"
	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/catalog"
	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/domain"
	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/progress"
	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrInvalidTemplate     = errors.New("unknown plan template")
	ErrInvalidDuration     = errors.New("plan duration must be a positive number of days")
	ErrInvalidReminderTime = errors.New("reminder time must be in HH:MM format")
	// ErrPlanNotFound covers both a missing plan and a plan owned by someone
	// else; callers cannot distinguish the two.
	ErrPlanNotFound = errors.New("plan not found")
)

// PlanService is the lifecycle manager for recovery plans: it creates plans,
// accepts one check-in per calendar day, reconciles completion, and answers
// progress and summary queries.
type PlanService interface {
	ListTemplates() []domain.PlanTemplate
	CreatePlan(ctx context.Context, ownerID primitive.ObjectID, templateKey string, durationDays int, reminderTime string) (*domain.Plan, error)
	RecordCheckIn(ctx context.Context, ownerID, planID primitive.ObjectID, followedSteps bool, notes string) (*domain.CheckIn, error)
	GetActivePlan(ctx context.Context, ownerID primitive.ObjectID, templateKey string) (*domain.Plan, error)
	ListMyPlans(ctx context.Context, ownerID primitive.ObjectID, templateKey string) ([]domain.Plan, error)
	GetProgress(ctx context.Context, ownerID, planID primitive.ObjectID) (*domain.ProgressSnapshot, error)
	GetSummary(ctx context.Context, ownerID, planID primitive.ObjectID) (*domain.SummaryReport, error)
	DeletePlan(ctx context.Context, ownerID, planID primitive.ObjectID) error

	// ClosePlan completes a plan regardless of its end date (administrative
	// action). Idempotent on already-completed plans.
	ClosePlan(ctx context.Context, planID primitive.ObjectID) (*domain.Plan, error)

	// ActivePlans lists every active plan across owners. Consumed by the
	// reminder scheduler, which needs plan metadata only.
	ActivePlans(ctx context.Context) ([]domain.Plan, error)
}

// --- Service Implementation ---

// planService implements the PlanService interface.
type planService struct {
	planRepo repository.PlanRepository
	catalog  *catalog.Catalog
	now      func() time.Time

	// Per-plan mutexes serialize check-in and status mutations so two
	// concurrent check-ins for the same plan and day collapse into a single
	// ledger row with last-write-wins fields.
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewPlanService creates a new instance of planService.
func NewPlanService(planRepo repository.PlanRepository, templates *catalog.Catalog) PlanService {
	return &planService{
		planRepo: planRepo,
		catalog:  templates,
		now:      time.Now,
		locks:    make(map[string]*sync.Mutex),
	}
}

func (s *planService) lockPlan(planID primitive.ObjectID) func() {
	s.locksMu.Lock()
	mu, ok := s.locks[planID.Hex()]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[planID.Hex()] = mu
	}
	s.locksMu.Unlock()

	mu.Lock()
	return mu.Unlock
}

// ListTemplates returns the read-only template catalog.
func (s *planService) ListTemplates() []domain.PlanTemplate {
	return s.catalog.List()
}

// CreatePlan starts a new plan for the owner. A non-positive durationDays
// falls back to the template's suggested duration; the start date is always
// the creator's current calendar day.
func (s *planService) CreatePlan(ctx context.Context, ownerID primitive.ObjectID, templateKey string, durationDays int, reminderTime string) (*domain.Plan, error) {
	tmpl, ok := s.catalog.Get(templateKey)
	if !ok {
		return nil, ErrInvalidTemplate
	}
	if durationDays <= 0 {
		durationDays = tmpl.SuggestedDurationDays
	}
	if durationDays <= 0 {
		return nil, ErrInvalidDuration
	}
	if !calendar.ValidClockTime(reminderTime) {
		return nil, ErrInvalidReminderTime
	}

	start := calendar.DayOf(s.now())
	plan := &domain.Plan{
		OwnerID:      ownerID,
		TemplateKey:  templateKey,
		StartDate:    start.Key(),
		EndDate:      start.AddDays(durationDays).Key(),
		DurationDays: durationDays,
		ReminderTime: reminderTime,
		Status:       domain.PlanStatusActive,
	}

	planID, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		return nil, err
	}
	plan.ID = planID
	return plan, nil
}

// RecordCheckIn upserts today's check-in for the caller's plan. The check-in
// date is always the current calendar day; backdating is not possible
// through this operation. Calling it twice on the same day overwrites the
// first entry's answer rather than adding a second row.
func (s *planService) RecordCheckIn(ctx context.Context, ownerID, planID primitive.ObjectID, followedSteps bool, notes string) (*domain.CheckIn, error) {
	unlock := s.lockPlan(planID)
	defer unlock()

	plan, err := s.getOwnedPlan(ctx, ownerID, planID)
	if err != nil {
		return nil, err
	}
	if _, err := s.reconcileStatus(ctx, plan); err != nil {
		return nil, err
	}

	checkin := &domain.CheckIn{
		PlanID:        planID,
		Date:          calendar.DayOf(s.now()).Key(),
		FollowedSteps: followedSteps,
		Notes:         notes,
	}
	return s.planRepo.UpsertCheckIn(ctx, checkin)
}

// GetActivePlan returns the owner's most recently created plan that is still
// active after reconciliation, or nil when none exists. Clients use this to
// resume a session after reload.
func (s *planService) GetActivePlan(ctx context.Context, ownerID primitive.ObjectID, templateKey string) (*domain.Plan, error) {
	plans, err := s.planRepo.GetByOwner(ctx, ownerID, templateKey)
	if err != nil {
		return nil, err
	}
	for i := range plans {
		plan := &plans[i]
		if !plan.IsActive() {
			continue
		}
		reconciled, err := s.reconcileStatus(ctx, plan)
		if err != nil {
			return nil, err
		}
		if reconciled.IsActive() {
			return reconciled, nil
		}
	}
	return nil, nil
}

// ListMyPlans returns all of the owner's plans, newest first.
func (s *planService) ListMyPlans(ctx context.Context, ownerID primitive.ObjectID, templateKey string) ([]domain.Plan, error) {
	return s.planRepo.GetByOwner(ctx, ownerID, templateKey)
}

// GetProgress recomputes the derived progress snapshot from the ledger.
func (s *planService) GetProgress(ctx context.Context, ownerID, planID primitive.ObjectID) (*domain.ProgressSnapshot, error) {
	plan, err := s.getOwnedPlan(ctx, ownerID, planID)
	if err != nil {
		return nil, err
	}
	if plan, err = s.reconcileStatus(ctx, plan); err != nil {
		return nil, err
	}
	checkins, err := s.planRepo.ListCheckIns(ctx, planID)
	if err != nil {
		return nil, err
	}
	snapshot, err := progress.Snapshot(plan, checkins, calendar.DayOf(s.now()))
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// GetSummary builds the closing report. Requested before completion it
// reflects partial progress.
func (s *planService) GetSummary(ctx context.Context, ownerID, planID primitive.ObjectID) (*domain.SummaryReport, error) {
	plan, err := s.getOwnedPlan(ctx, ownerID, planID)
	if err != nil {
		return nil, err
	}
	if plan, err = s.reconcileStatus(ctx, plan); err != nil {
		return nil, err
	}
	checkins, err := s.planRepo.ListCheckIns(ctx, planID)
	if err != nil {
		return nil, err
	}
	report := progress.Summary(plan, checkins)
	return &report, nil
}

// DeletePlan removes the caller's plan and its ledger.
func (s *planService) DeletePlan(ctx context.Context, ownerID, planID primitive.ObjectID) error {
	unlock := s.lockPlan(planID)
	defer unlock()

	err := s.planRepo.Delete(ctx, planID, ownerID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPlanNotFound
	}
	return err
}

// ClosePlan force-completes a plan without waiting for its end date.
func (s *planService) ClosePlan(ctx context.Context, planID primitive.ObjectID) (*domain.Plan, error) {
	unlock := s.lockPlan(planID)
	defer unlock()

	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.Status == domain.PlanStatusCompleted {
		return plan, nil
	}
	if err := s.planRepo.SetStatus(ctx, planID, domain.PlanStatusCompleted); err != nil {
		return nil, err
	}
	plan.Status = domain.PlanStatusCompleted
	return plan, nil
}

// ActivePlans lists every active plan for the reminder scheduler.
func (s *planService) ActivePlans(ctx context.Context) ([]domain.Plan, error) {
	return s.planRepo.ListActive(ctx)
}

// getOwnedPlan fetches a plan and verifies ownership. A plan owned by a
// different user is reported as not found, never as a distinct error.
func (s *planService) getOwnedPlan(ctx context.Context, ownerID, planID primitive.ObjectID) (*domain.Plan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.OwnerID != ownerID {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

// reconcileStatus transitions an active plan to completed once today has
// reached its end date, and persists the transition. Idempotent: an
// already-completed plan passes through unchanged.
func (s *planService) reconcileStatus(ctx context.Context, plan *domain.Plan) (*domain.Plan, error) {
	if plan.Status != domain.PlanStatusActive {
		return plan, nil
	}
	end, err := calendar.ParseKey(plan.EndDate)
	if err != nil {
		return nil, err
	}
	today := calendar.DayOf(s.now())
	if today.Before(end) {
		return plan, nil
	}
	if err := s.planRepo.SetStatus(ctx, plan.ID, domain.PlanStatusCompleted); err != nil {
		return nil, err
	}
	plan.Status = domain.PlanStatusCompleted
	return plan, nil
}

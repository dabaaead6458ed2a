// Package memory provides in-memory implementations of the repository
// interfaces. They back the service-layer tests and the "memory" database
// driver used for local development without a MongoDB instance.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/domain"
	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type checkinKey struct {
	planID string
	date   string
}

// PlanRepository is a mutex-guarded in-memory repository.PlanRepository.
type PlanRepository struct {
	mu       sync.RWMutex
	plans    map[string]domain.Plan
	checkins map[checkinKey]domain.CheckIn
}

// NewPlanRepository creates an empty in-memory plan store.
func NewPlanRepository() *PlanRepository {
	return &PlanRepository{
		plans:    make(map[string]domain.Plan),
		checkins: make(map[checkinKey]domain.CheckIn),
	}
}

func (r *PlanRepository) Create(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	r.plans[plan.ID.Hex()] = *plan
	return plan.ID, nil
}

func (r *PlanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plan, ok := r.plans[id.Hex()]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &plan, nil
}

func (r *PlanRepository) GetByOwner(ctx context.Context, ownerID primitive.ObjectID, templateKey string) ([]domain.Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var plans []domain.Plan
	for _, plan := range r.plans {
		if plan.OwnerID != ownerID {
			continue
		}
		if templateKey != "" && plan.TemplateKey != templateKey {
			continue
		}
		plans = append(plans, plan)
	}
	// Newest first, matching the Mongo repository's sort.
	sort.Slice(plans, func(i, j int) bool {
		if plans[i].CreatedAt.Equal(plans[j].CreatedAt) {
			return plans[i].ID.Hex() > plans[j].ID.Hex()
		}
		return plans[i].CreatedAt.After(plans[j].CreatedAt)
	})
	return plans, nil
}

func (r *PlanRepository) ListActive(ctx context.Context) ([]domain.Plan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var plans []domain.Plan
	for _, plan := range r.plans {
		if plan.Status == domain.PlanStatusActive {
			plans = append(plans, plan)
		}
	}
	return plans, nil
}

func (r *PlanRepository) SetStatus(ctx context.Context, planID primitive.ObjectID, status domain.PlanStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	plan, ok := r.plans[planID.Hex()]
	if !ok {
		return repository.ErrNotFound
	}
	plan.Status = status
	plan.UpdatedAt = time.Now().UTC()
	r.plans[planID.Hex()] = plan
	return nil
}

func (r *PlanRepository) Delete(ctx context.Context, planID, ownerID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	plan, ok := r.plans[planID.Hex()]
	if !ok || plan.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(r.plans, planID.Hex())
	for key := range r.checkins {
		if key.planID == planID.Hex() {
			delete(r.checkins, key)
		}
	}
	return nil
}

// UpsertCheckIn keeps at most one row per (planId, date); a second submission
// for the same day overwrites FollowedSteps and Notes.
func (r *PlanRepository) UpsertCheckIn(ctx context.Context, checkin *domain.CheckIn) (*domain.CheckIn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := checkinKey{planID: checkin.PlanID.Hex(), date: checkin.Date}
	now := time.Now().UTC()

	stored, exists := r.checkins[key]
	if !exists {
		stored = domain.CheckIn{
			ID:        primitive.NewObjectID(),
			PlanID:    checkin.PlanID,
			Date:      checkin.Date,
			CreatedAt: now,
		}
	}
	stored.FollowedSteps = checkin.FollowedSteps
	stored.Notes = checkin.Notes
	stored.UpdatedAt = now
	r.checkins[key] = stored

	result := stored
	return &result, nil
}

func (r *PlanRepository) ListCheckIns(ctx context.Context, planID primitive.ObjectID) ([]domain.CheckIn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var checkins []domain.CheckIn
	for key, checkin := range r.checkins {
		if key.planID == planID.Hex() {
			checkins = append(checkins, checkin)
		}
	}
	sort.Slice(checkins, func(i, j int) bool {
		return checkins[i].Date < checkins[j].Date
	})
	return checkins, nil
}

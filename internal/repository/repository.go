package repository

import (
	"context"

	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer. Services translate these into
// their own sentinel errors; anything else is surfaced as-is (the store being
// unavailable is not retried here, that policy belongs to the caller).
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate record")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// PlanRepository is the persistence boundary for plans and their check-in
// ledgers. No business rules live here; every rule about durations, streaks
// and status transitions belongs to the service layer, so this interface can
// be satisfied by the in-memory store in tests.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Plan, error)

	// GetByOwner returns the owner's plans newest-first. templateKey narrows
	// the result when non-empty.
	GetByOwner(ctx context.Context, ownerID primitive.ObjectID, templateKey string) ([]domain.Plan, error)

	// ListActive returns every plan still in the active status, across all
	// owners. Used by the reminder scheduler.
	ListActive(ctx context.Context) ([]domain.Plan, error)

	SetStatus(ctx context.Context, planID primitive.ObjectID, status domain.PlanStatus) error
	Delete(ctx context.Context, planID, ownerID primitive.ObjectID) error

	// UpsertCheckIn inserts or overwrites the single check-in row keyed by
	// (planId, date). The returned record reflects the stored state.
	UpsertCheckIn(ctx context.Context, checkin *domain.CheckIn) (*domain.CheckIn, error)

	// ListCheckIns returns a plan's ledger ordered by date ascending.
	ListCheckIns(ctx context.Context, planID primitive.ObjectID) ([]domain.CheckIn, error)
}

// ReportRepository defines the interface for health report upload metadata.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.HealthReport) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.HealthReport, error)
	GetByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]domain.HealthReport, error)
}

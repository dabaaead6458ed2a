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

// ReportRepository is a mutex-guarded in-memory repository.ReportRepository.
type ReportRepository struct {
	mu      sync.RWMutex
	reports map[string]domain.HealthReport
}

// NewReportRepository creates an empty in-memory report metadata store.
func NewReportRepository() *ReportRepository {
	return &ReportRepository{reports: make(map[string]domain.HealthReport)}
}

func (r *ReportRepository) Create(ctx context.Context, report *domain.HealthReport) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	report.ID = primitive.NewObjectID()
	report.UploadedAt = time.Now().UTC()
	r.reports[report.ID.Hex()] = *report
	return report.ID, nil
}

func (r *ReportRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.HealthReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	report, ok := r.reports[id.Hex()]
	if !ok {
		return nil, repository.ErrNotFound
	}
	rep := report
	return &rep, nil
}

func (r *ReportRepository) GetByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]domain.HealthReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var reports []domain.HealthReport
	for _, report := range r.reports {
		if report.OwnerID == ownerID {
			reports = append(reports, report)
		}
	}
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].UploadedAt.After(reports[j].UploadedAt)
	})
	return reports, nil
}

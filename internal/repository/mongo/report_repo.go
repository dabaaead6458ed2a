package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/domain"
	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const reportCollectionName = "health_reports"

// mongoReportRepository implements repository.ReportRepository
type mongoReportRepository struct {
	collection *mongo.Collection
}

// NewMongoReportRepository creates a new health report metadata repository.
func NewMongoReportRepository(db *mongo.Database) repository.ReportRepository {
	return &mongoReportRepository{
		collection: db.Collection(reportCollectionName),
	}
}

// Create inserts new report metadata after the object upload is confirmed.
func (r *mongoReportRepository) Create(ctx context.Context, report *domain.HealthReport) (primitive.ObjectID, error) {
	if report.OwnerID == primitive.NilObjectID || report.S3ObjectKey == "" {
		return primitive.NilObjectID, errors.New("report requires ownerId and object key")
	}
	report.ID = primitive.NewObjectID()
	report.UploadedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, report)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted report ID")
	}
	return insertedID, nil
}

// GetByID retrieves one report's metadata.
func (r *mongoReportRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.HealthReport, error) {
	var report domain.HealthReport
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &report, nil
}

// GetByOwner retrieves all reports uploaded by one user, newest first.
func (r *mongoReportRepository) GetByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]domain.HealthReport, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "uploadedAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"ownerId": ownerID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reports []domain.HealthReport
	if err = cursor.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// EnsureReportIndexes creates necessary indexes. Call during startup.
func EnsureReportIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "uploadedAt", Value: -1}},
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}

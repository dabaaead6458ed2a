// internal/repository/mongo/plan_repo.go
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

const (
	planCollectionName    = "recovery_plans"
	checkinCollectionName = "plan_checkins"
)

// mongoPlanRepository implements repository.PlanRepository
type mongoPlanRepository struct {
	plans    *mongo.Collection
	checkins *mongo.Collection
}

// NewMongoPlanRepository creates a new plan repository.
func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{
		plans:    db.Collection(planCollectionName),
		checkins: db.Collection(checkinCollectionName),
	}
}

// Create inserts a new plan.
func (r *mongoPlanRepository) Create(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error) {
	if plan.OwnerID == primitive.NilObjectID || plan.TemplateKey == "" {
		return primitive.NilObjectID, errors.New("plan requires ownerId and templateKey")
	}
	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	result, err := r.plans.InsertOne(ctx, plan)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted plan ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single plan by its ID.
func (r *mongoPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Plan, error) {
	var plan domain.Plan
	err := r.plans.FindOne(ctx, bson.M{"_id": id}).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// GetByOwner retrieves an owner's plans, newest first, optionally narrowed to
// one template key.
func (r *mongoPlanRepository) GetByOwner(ctx context.Context, ownerID primitive.ObjectID, templateKey string) ([]domain.Plan, error) {
	filter := bson.M{"ownerId": ownerID}
	if templateKey != "" {
		filter["templateKey"] = templateKey
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.plans.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var plans []domain.Plan
	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	// Empty slice when the owner has no plans (not an error).
	return plans, nil
}

// ListActive retrieves every plan still marked active, across owners.
func (r *mongoPlanRepository) ListActive(ctx context.Context) ([]domain.Plan, error) {
	cursor, err := r.plans.Find(ctx, bson.M{"status": domain.PlanStatusActive})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var plans []domain.Plan
	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// SetStatus updates the lifecycle status of a plan.
func (r *mongoPlanRepository) SetStatus(ctx context.Context, planID primitive.ObjectID, status domain.PlanStatus) error {
	update := bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": time.Now().UTC(),
	}}
	result, err := r.plans.UpdateOne(ctx, bson.M{"_id": planID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a plan and its check-in ledger. The filter requires the
// owner to match, so a caller can never delete someone else's plan.
func (r *mongoPlanRepository) Delete(ctx context.Context, planID, ownerID primitive.ObjectID) error {
	result, err := r.plans.DeleteOne(ctx, bson.M{"_id": planID, "ownerId": ownerID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	// Ledger rows are orphaned without this; best effort after the plan row.
	_, err = r.checkins.DeleteMany(ctx, bson.M{"planId": planID})
	return err
}

// UpsertCheckIn atomically inserts or overwrites the single check-in row for
// (planId, date). The unique compound index makes concurrent upserts for the
// same day collapse into one row with last-write-wins fields.
func (r *mongoPlanRepository) UpsertCheckIn(ctx context.Context, checkin *domain.CheckIn) (*domain.CheckIn, error) {
	if checkin.PlanID == primitive.NilObjectID || checkin.Date == "" {
		return nil, errors.New("check-in requires planId and date")
	}
	now := time.Now().UTC()
	filter := bson.M{"planId": checkin.PlanID, "date": checkin.Date}
	update := bson.M{
		"$set": bson.M{
			"followedSteps": checkin.FollowedSteps,
			"notes":         checkin.Notes,
			"updatedAt":     now,
		},
		"$setOnInsert": bson.M{
			"_id":       primitive.NewObjectID(),
			"planId":    checkin.PlanID,
			"date":      checkin.Date,
			"createdAt": now,
		},
	}
	_, err := r.checkins.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return nil, err
	}

	var stored domain.CheckIn
	if err := r.checkins.FindOne(ctx, filter).Decode(&stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

// ListCheckIns retrieves a plan's full ledger ordered by date ascending.
func (r *mongoPlanRepository) ListCheckIns(ctx context.Context, planID primitive.ObjectID) ([]domain.CheckIn, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.checkins.Find(ctx, bson.M{"planId": planID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var checkins []domain.CheckIn
	if err = cursor.All(ctx, &checkins); err != nil {
		return nil, err
	}
	return checkins, nil
}

// EnsurePlanIndexes creates necessary indexes. Call during startup.
func EnsurePlanIndexes(ctx context.Context, plans, checkins *mongo.Collection) {
	planIndexes := []mongo.IndexModel{
		{
			// Main query pattern: an owner's plans for one template, newest first
			Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "templateKey", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
	}
	if _, err := plans.Indexes().CreateMany(ctx, planIndexes); err != nil {
		// log.Printf("WARN: Failed to create indexes for %s: %v", plans.Name(), err)
	}

	checkinIndexes := []mongo.IndexModel{
		{
			// One check-in per plan per calendar day, enforced at the store.
			Keys:    bson.D{{Key: "planId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := checkins.Indexes().CreateMany(ctx, checkinIndexes); err != nil {
		// log.Printf("WARN: Failed to create indexes for %s: %v", checkins.Name(), err)
	}
}

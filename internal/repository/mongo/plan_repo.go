package mongo

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"runplan/marathon-planner/internal/domain"
	"runplan/marathon-planner/internal/repository"
)

const planCollectionName = "training_plans"

// mongoPlanRepository implements repository.PlanRepository.
type mongoPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanRepository creates a new training plan repository.
func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
	}
}

// Create inserts a newly generated plan.
func (r *mongoPlanRepository) Create(ctx context.Context, plan *domain.TrainingPlan) (primitive.ObjectID, error) {
	if plan.OwnerID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("plan requires an ownerId")
	}
	if len(plan.Weeks) == 0 {
		return primitive.NilObjectID, errors.New("plan requires at least one week")
	}
	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted plan ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single plan. The owner filter enforces ownership at
// the database level.
func (r *mongoPlanRepository) GetByID(ctx context.Context, id, ownerID primitive.ObjectID) (*domain.TrainingPlan, error) {
	var plan domain.TrainingPlan
	filter := bson.M{"_id": id, "ownerId": ownerID}
	err := r.collection.FindOne(ctx, filter).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// GetByOwnerID retrieves all plans belonging to a runner, newest first.
func (r *mongoPlanRepository) GetByOwnerID(ctx context.Context, ownerID primitive.ObjectID) ([]domain.TrainingPlan, error) {
	var plans []domain.TrainingPlan
	filter := bson.M{"ownerId": ownerID}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	// Return an empty slice if no plans were found (not an error).
	return plans, nil
}

// SetExportKey records (or clears, with an empty key) the object key of a
// plan's published export.
func (r *mongoPlanRepository) SetExportKey(ctx context.Context, id, ownerID primitive.ObjectID, key string) error {
	filter := bson.M{"_id": id, "ownerId": ownerID}
	update := bson.M{"$set": bson.M{"exportKey": key, "updatedAt": time.Now().UTC()}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a plan. The filter includes the owner, so a mismatched
// owner looks identical to a missing plan.
func (r *mongoPlanRepository) Delete(ctx context.Context, id, ownerID primitive.ObjectID) error {
	if id == primitive.NilObjectID || ownerID == primitive.NilObjectID {
		return errors.New("plan ID and owner ID are required for deletion")
	}

	filter := bson.M{"_id": id, "ownerId": ownerID}
	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsurePlanIndexes creates necessary indexes. Call during startup.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/mansoorceksport/gymhub/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoWorkoutPlanRepository implements domain.WorkoutPlanRepository
type MongoWorkoutPlanRepository struct {
	collection *mongo.Collection
}

func NewMongoWorkoutPlanRepository(db *mongo.Database) *MongoWorkoutPlanRepository {
	coll := db.Collection("workout_plans")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// One plan per customer
	_, _ = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return &MongoWorkoutPlanRepository{collection: coll}
}

func (r *MongoWorkoutPlanRepository) Create(ctx context.Context, plan *domain.WorkoutPlan) error {
	now := time.Now()
	plan.ID = primitive.NewObjectID().Hex()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	if plan.Exercises == nil {
		plan.Exercises = []domain.Exercise{}
	}

	if _, err := r.collection.InsertOne(ctx, plan); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: workout plan already exists for user %s", domain.ErrConflict, plan.UserID)
		}
		return fmt.Errorf("failed to create workout plan: %w", err)
	}
	return nil
}

func (r *MongoWorkoutPlanRepository) GetByUserID(ctx context.Context, userID string) (*domain.WorkoutPlan, error) {
	var plan domain.WorkoutPlan
	if err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&plan); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrWorkoutPlanNotFound
		}
		return nil, fmt.Errorf("failed to get workout plan: %w", err)
	}
	return &plan, nil
}

func (r *MongoWorkoutPlanRepository) ReplaceExercises(ctx context.Context, userID string, exercises []domain.Exercise) (*domain.WorkoutPlan, error) {
	if exercises == nil {
		exercises = []domain.Exercise{}
	}
	update := bson.M{"$set": bson.M{"exercises": exercises, "updated_at": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var plan domain.WorkoutPlan
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"user_id": userID}, update, opts).Decode(&plan); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrWorkoutPlanNotFound
		}
		return nil, fmt.Errorf("failed to replace exercises: %w", err)
	}
	return &plan, nil
}

func (r *MongoWorkoutPlanRepository) DeleteByUserID(ctx context.Context, userID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete workout plan: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrWorkoutPlanNotFound
	}
	return nil
}

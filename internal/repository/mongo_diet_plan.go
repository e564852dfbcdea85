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

// MongoDietPlanRepository implements domain.DietPlanRepository
type MongoDietPlanRepository struct {
	collection *mongo.Collection
}

func NewMongoDietPlanRepository(db *mongo.Database) *MongoDietPlanRepository {
	coll := db.Collection("diet_plans")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// One plan per customer
	_, _ = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return &MongoDietPlanRepository{collection: coll}
}

func (r *MongoDietPlanRepository) Create(ctx context.Context, plan *domain.DietPlan) error {
	now := time.Now()
	plan.ID = primitive.NewObjectID().Hex()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	if plan.Meals == nil {
		plan.Meals = []domain.Meal{}
	}

	if _, err := r.collection.InsertOne(ctx, plan); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: diet plan already exists for user %s", domain.ErrConflict, plan.UserID)
		}
		return fmt.Errorf("failed to create diet plan: %w", err)
	}
	return nil
}

func (r *MongoDietPlanRepository) GetByUserID(ctx context.Context, userID string) (*domain.DietPlan, error) {
	var plan domain.DietPlan
	if err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&plan); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrDietPlanNotFound
		}
		return nil, fmt.Errorf("failed to get diet plan: %w", err)
	}
	return &plan, nil
}

func (r *MongoDietPlanRepository) ReplaceMeals(ctx context.Context, userID string, meals []domain.Meal) (*domain.DietPlan, error) {
	if meals == nil {
		meals = []domain.Meal{}
	}
	update := bson.M{"$set": bson.M{"meals": meals, "updated_at": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var plan domain.DietPlan
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"user_id": userID}, update, opts).Decode(&plan); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrDietPlanNotFound
		}
		return nil, fmt.Errorf("failed to replace meals: %w", err)
	}
	return &plan, nil
}

func (r *MongoDietPlanRepository) DeleteByUserID(ctx context.Context, userID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete diet plan: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrDietPlanNotFound
	}
	return nil
}

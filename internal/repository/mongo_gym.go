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

// MongoGymRepository implements domain.GymRepository
type MongoGymRepository struct {
	collection *mongo.Collection
}

func NewMongoGymRepository(db *mongo.Database) *MongoGymRepository {
	coll := db.Collection("gyms")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _ = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: 1}},
	})

	return &MongoGymRepository{collection: coll}
}

func (r *MongoGymRepository) Create(ctx context.Context, gym *domain.Gym) error {
	now := time.Now()
	gym.ID = primitive.NewObjectID().Hex()
	gym.CreatedAt = now
	gym.UpdatedAt = now
	if gym.Images == nil {
		gym.Images = []string{}
	}

	if _, err := r.collection.InsertOne(ctx, gym); err != nil {
		return fmt.Errorf("failed to create gym: %w", err)
	}
	return nil
}

func (r *MongoGymRepository) GetByID(ctx context.Context, id string) (*domain.Gym, error) {
	var gym domain.Gym
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&gym); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrGymNotFound
		}
		return nil, fmt.Errorf("failed to get gym: %w", err)
	}
	return &gym, nil
}

// GetByOwner returns the owner's gyms, oldest first
func (r *MongoGymRepository) GetByOwner(ctx context.Context, ownerID string) ([]*domain.Gym, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list gyms: %w", err)
	}
	defer cursor.Close(ctx)

	gyms := make([]*domain.Gym, 0)
	if err := cursor.All(ctx, &gyms); err != nil {
		return nil, fmt.Errorf("failed to decode gyms: %w", err)
	}
	return gyms, nil
}

func (r *MongoGymRepository) Update(ctx context.Context, gym *domain.Gym) error {
	gym.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"name":       gym.Name,
			"location":   gym.Location,
			"images":     gym.Images,
			"updated_at": gym.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": gym.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update gym: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrGymNotFound
	}
	return nil
}

func (r *MongoGymRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete gym: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrGymNotFound
	}
	return nil
}

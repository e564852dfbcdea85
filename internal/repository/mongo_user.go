package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mansoorceksport/gymhub/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserRepository implements domain.UserRepository
type MongoUserRepository struct {
	collection *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	coll := db.Collection("users")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _ = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "gym_id", Value: 1}, {Key: "role", Value: 1}}},
	})

	return &MongoUserRepository{
		collection: coll,
	}
}

func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.ID == "" {
		user.ID = primitive.NewObjectID().Hex()
	}

	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: email %s already registered", domain.ErrConflict, user.Email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepository) GetByEmailAndRole(ctx context.Context, email, role string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email)), "role": role})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var user domain.User
	if err := r.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *MongoUserRepository) SetGym(ctx context.Context, userID, gymID string) error {
	update := bson.M{"$set": bson.M{"updated_at": time.Now()}}
	if gymID == "" {
		update["$unset"] = bson.M{"gym_id": ""}
	} else {
		update["$set"].(bson.M)["gym_id"] = gymID
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return fmt.Errorf("failed to update user gym: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *MongoUserRepository) ClearGym(ctx context.Context, gymID string) ([]string, error) {
	filter := bson.M{"gym_id": gymID}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to find gym users: %w", err)
	}
	var linked []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &linked); err != nil {
		return nil, fmt.Errorf("failed to decode gym users: %w", err)
	}

	ids := make([]string, 0, len(linked))
	for _, u := range linked {
		ids = append(ids, u.ID)
	}
	if len(ids) == 0 {
		return ids, nil
	}

	// users linked after the Find keep their link and are not reported
	update := bson.M{
		"$unset": bson.M{"gym_id": ""},
		"$set":   bson.M{"updated_at": time.Now()},
	}
	linkedOnly := bson.M{"_id": bson.M{"$in": ids}, "gym_id": gymID}
	if _, err := r.collection.UpdateMany(ctx, linkedOnly, update); err != nil {
		return nil, fmt.Errorf("failed to clear gym links: %w", err)
	}
	return ids, nil
}

func (r *MongoUserRepository) GetByGymAndRole(ctx context.Context, gymID, role string) ([]*domain.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"gym_id": gymID, "role": role}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	users := make([]*domain.User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

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

// Both log collections are read per user, newest date first
func ensureUserDateIndex(coll *mongo.Collection) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _ = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "date", Value: -1},
		},
	})
}

var byDateDesc = options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "created_at", Value: -1}})

// MongoMacroLogRepository implements domain.MacroLogRepository
type MongoMacroLogRepository struct {
	collection *mongo.Collection
}

func NewMongoMacroLogRepository(db *mongo.Database) *MongoMacroLogRepository {
	coll := db.Collection("macro_logs")
	ensureUserDateIndex(coll)
	return &MongoMacroLogRepository{collection: coll}
}

func (r *MongoMacroLogRepository) Create(ctx context.Context, log *domain.MacroLog) error {
	now := time.Now()
	log.ID = primitive.NewObjectID().Hex()
	log.CreatedAt = now
	log.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, log); err != nil {
		return fmt.Errorf("failed to insert macro log: %w", err)
	}
	return nil
}

func (r *MongoMacroLogRepository) GetByID(ctx context.Context, id string) (*domain.MacroLog, error) {
	var log domain.MacroLog
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&log); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrMacroLogNotFound
		}
		return nil, fmt.Errorf("failed to get macro log: %w", err)
	}
	return &log, nil
}

func (r *MongoMacroLogRepository) Update(ctx context.Context, log *domain.MacroLog) error {
	log.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"date":       log.Date,
		"food":       log.Food,
		"protein":    log.Protein,
		"carbs":      log.Carbs,
		"fats":       log.Fats,
		"calories":   log.Calories,
		"updated_at": log.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": log.ID, "user_id": log.UserID}, update)
	if err != nil {
		return fmt.Errorf("failed to update macro log: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrMacroLogNotFound
	}
	return nil
}

func (r *MongoMacroLogRepository) DeleteForUser(ctx context.Context, id, userID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete macro log: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrMacroLogNotFound
	}
	return nil
}

func (r *MongoMacroLogRepository) ListByUser(ctx context.Context, userID string) ([]*domain.MacroLog, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, byDateDesc)
	if err != nil {
		return nil, fmt.Errorf("failed to find macro logs: %w", err)
	}
	defer cursor.Close(ctx)

	logs := make([]*domain.MacroLog, 0)
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, fmt.Errorf("failed to decode macro logs: %w", err)
	}
	return logs, nil
}

// MongoBodyProgressRepository implements domain.BodyProgressRepository
type MongoBodyProgressRepository struct {
	collection *mongo.Collection
}

func NewMongoBodyProgressRepository(db *mongo.Database) *MongoBodyProgressRepository {
	coll := db.Collection("body_progress")
	ensureUserDateIndex(coll)
	return &MongoBodyProgressRepository{collection: coll}
}

func (r *MongoBodyProgressRepository) Create(ctx context.Context, entry *domain.BodyProgress) error {
	now := time.Now()
	entry.ID = primitive.NewObjectID().Hex()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	if entry.Images == nil {
		entry.Images = []string{}
	}

	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert body progress: %w", err)
	}
	return nil
}

func (r *MongoBodyProgressRepository) GetByID(ctx context.Context, id string) (*domain.BodyProgress, error) {
	var entry domain.BodyProgress
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&entry); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrBodyProgressNotFound
		}
		return nil, fmt.Errorf("failed to get body progress: %w", err)
	}
	return &entry, nil
}

func (r *MongoBodyProgressRepository) Update(ctx context.Context, entry *domain.BodyProgress) error {
	entry.UpdatedAt = time.Now()
	if entry.Images == nil {
		entry.Images = []string{}
	}
	update := bson.M{"$set": bson.M{
		"date":         entry.Date,
		"weight":       entry.Weight,
		"body_fat":     entry.BodyFat,
		"muscle_mass":  entry.MuscleMass,
		"images":       entry.Images,
		"measurements": entry.Measurements,
		"updated_at":   entry.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": entry.ID, "user_id": entry.UserID}, update)
	if err != nil {
		return fmt.Errorf("failed to update body progress: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrBodyProgressNotFound
	}
	return nil
}

func (r *MongoBodyProgressRepository) DeleteForUser(ctx context.Context, id, userID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete body progress: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrBodyProgressNotFound
	}
	return nil
}

func (r *MongoBodyProgressRepository) ListByUser(ctx context.Context, userID string) ([]*domain.BodyProgress, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, byDateDesc)
	if err != nil {
		return nil, fmt.Errorf("failed to find body progress: %w", err)
	}
	defer cursor.Close(ctx)

	entries := make([]*domain.BodyProgress, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode body progress: %w", err)
	}
	return entries, nil
}

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

// MongoNotificationRepository implements domain.NotificationRepository
type MongoNotificationRepository struct {
	collection *mongo.Collection
}

func NewMongoNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	coll := db.Collection("notifications")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _ = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "recipient_id", Value: 1},
			{Key: "is_read", Value: 1},
			{Key: "created_at", Value: -1},
		},
	})

	return &MongoNotificationRepository{collection: coll}
}

func (r *MongoNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	n.ID = primitive.NewObjectID().Hex()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	if _, err := r.collection.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

func (r *MongoNotificationRepository) ListUnread(ctx context.Context, recipientID string) ([]*domain.Notification, error) {
	filter := bson.M{"recipient_id": recipientID, "is_read": false}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find notifications: %w", err)
	}
	defer cursor.Close(ctx)

	notifications := make([]*domain.Notification, 0)
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return notifications, nil
}

func (r *MongoNotificationRepository) MarkRead(ctx context.Context, id, recipientID string) error {
	filter := bson.M{"_id": id, "recipient_id": recipientID}
	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	// MatchedCount, not ModifiedCount: re-reading an already read item is fine
	if result.MatchedCount == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

func (r *MongoNotificationRepository) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	filter := bson.M{"recipient_id": recipientID, "is_read": false}
	result, err := r.collection.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return result.ModifiedCount, nil
}

package domain

import (
	"context"
	"time"
)

// Notification types
const (
	NotificationInfo    = "info"
	NotificationAlert   = "alert"
	NotificationWarning = "warning"
)

// IsValidNotificationType reports whether t is a known notification type
func IsValidNotificationType(t string) bool {
	switch t {
	case NotificationInfo, NotificationAlert, NotificationWarning:
		return true
	}
	return false
}

// Notification is an entry in a user's inbox. The only transition is unread -> read.
type Notification struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	RecipientID string    `bson:"recipient_id" json:"recipient_id"`
	Message     string    `bson:"message" json:"message"`
	Type        string    `bson:"type" json:"type"`
	IsRead      bool      `bson:"is_read" json:"is_read"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// NotificationEvent is a pending notification produced by a mutating operation.
// Nothing is persisted until the event is dispatched.
type NotificationEvent struct {
	RecipientID string `json:"recipient_id"`
	Message     string `json:"message"`
	Type        string `json:"type"`
}

// NewInfoEvent builds an info-level event
func NewInfoEvent(recipientID, message string) NotificationEvent {
	return NotificationEvent{RecipientID: recipientID, Message: message, Type: NotificationInfo}
}

// NotificationRepository defines operations on the notification read model
type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	// ListUnread returns unread notifications, newest first
	ListUnread(ctx context.Context, recipientID string) ([]*Notification, error)
	// MarkRead returns ErrNotificationNotFound if id does not belong to recipientID
	MarkRead(ctx context.Context, id, recipientID string) error
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
}

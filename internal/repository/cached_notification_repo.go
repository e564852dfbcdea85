package repository

import (
	"context"
	"time"

	"github.com/mansoorceksport/gymhub/internal/domain"
)

// CachedNotificationRepository caches each recipient's unread inbox.
// Any write for a recipient drops that recipient's cached inbox.
type CachedNotificationRepository struct {
	base  domain.NotificationRepository
	cache domain.CacheRepository
	ttl   time.Duration
}

// NewCachedNotificationRepository creates a new cached notification repository
func NewCachedNotificationRepository(base domain.NotificationRepository, cache domain.CacheRepository, ttl time.Duration) *CachedNotificationRepository {
	return &CachedNotificationRepository{
		base:  base,
		cache: cache,
		ttl:   ttl,
	}
}

func (r *CachedNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	if err := r.base.Create(ctx, n); err != nil {
		return err
	}
	_ = r.cache.Delete(ctx, UnreadNotificationsKey(n.RecipientID))
	return nil
}

func (r *CachedNotificationRepository) ListUnread(ctx context.Context, recipientID string) ([]*domain.Notification, error) {
	key := UnreadNotificationsKey(recipientID)

	var cached []*domain.Notification
	if err := r.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	result, err := r.base.ListUnread(ctx, recipientID)
	if err != nil {
		return nil, err
	}

	_ = r.cache.Set(ctx, key, result, r.ttl)
	return result, nil
}

func (r *CachedNotificationRepository) MarkRead(ctx context.Context, id, recipientID string) error {
	if err := r.base.MarkRead(ctx, id, recipientID); err != nil {
		return err
	}
	_ = r.cache.Delete(ctx, UnreadNotificationsKey(recipientID))
	return nil
}

func (r *CachedNotificationRepository) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	n, err := r.base.MarkAllRead(ctx, recipientID)
	if err != nil {
		return 0, err
	}
	_ = r.cache.Delete(ctx, UnreadNotificationsKey(recipientID))
	return n, nil
}

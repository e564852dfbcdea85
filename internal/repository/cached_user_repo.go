package repository

import (
	"context"
	"time"

	"github.com/mansoorceksport/gymhub/internal/domain"
)

// CachedUserRepository wraps a UserRepository with a read-through cache on GetByID.
// Every gym link change invalidates the affected users so gate checks never see a
// stale gym_id for longer than a single write.
type CachedUserRepository struct {
	domain.UserRepository
	cache domain.CacheRepository
	ttl   time.Duration
}

// NewCachedUserRepository creates a new cached user repository
func NewCachedUserRepository(base domain.UserRepository, cache domain.CacheRepository, ttl time.Duration) *CachedUserRepository {
	return &CachedUserRepository{
		UserRepository: base,
		cache:          cache,
		ttl:            ttl,
	}
}

// GetByID retrieves a user with caching
func (r *CachedUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	key := UserKey(id)

	var user domain.User
	if err := r.cache.Get(ctx, key, &user); err == nil {
		return &user, nil
	}

	result, err := r.UserRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Store in cache (ignore cache errors)
	_ = r.cache.Set(ctx, key, result, r.ttl)

	return result, nil
}

// SetGym updates the link and invalidates the cached user
func (r *CachedUserRepository) SetGym(ctx context.Context, userID, gymID string) error {
	if err := r.UserRepository.SetGym(ctx, userID, gymID); err != nil {
		return err
	}
	_ = r.cache.Delete(ctx, UserKey(userID))
	return nil
}

// ClearGym clears every link to gymID and invalidates each affected user
func (r *CachedUserRepository) ClearGym(ctx context.Context, gymID string) ([]string, error) {
	ids, err := r.UserRepository.ClearGym(ctx, gymID)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, UserKey(id))
	}
	_ = r.cache.Delete(ctx, keys...)
	return ids, nil
}

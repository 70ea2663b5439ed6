package store

import (
	"cinelog-server/models"
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const userCacheTTL = 24 * time.Hour

// CachedUserStore is a Redis read-through cache in front of a UserStore.
// Profile reads hit Redis first; every mutation drops the cached entry so
// the next read refills it from MongoDB.
type CachedUserStore struct {
	UserStore
	redisClient *redis.Client
}

func NewCachedUserStore(inner UserStore, redisClient *redis.Client) *CachedUserStore {
	return &CachedUserStore{UserStore: inner, redisClient: redisClient}
}

func userKey(uid string) string {
	return "user:" + uid
}

func (s *CachedUserStore) FindByUID(ctx context.Context, uid string) (*models.User, error) {
	userJSON, err := s.redisClient.Get(ctx, userKey(uid)).Result()
	if err == nil {
		var user models.User
		if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
			log.Printf("Failed to unmarshal cached user %s: %v", uid, err)
		} else if !user.Deleted {
			return &user, nil
		}
	}

	user, err := s.UserStore.FindByUID(ctx, uid)
	if err != nil {
		return nil, err
	}

	userJSONBytes, err := json.Marshal(user)
	if err != nil {
		return user, nil
	}
	s.redisClient.Set(ctx, userKey(uid), userJSONBytes, userCacheTTL)
	return user, nil
}

func (s *CachedUserStore) invalidate(ctx context.Context, uids ...string) {
	for _, uid := range uids {
		if err := s.redisClient.Del(ctx, userKey(uid)).Err(); err != nil {
			log.Printf("Failed to invalidate cached user %s: %v", uid, err)
		}
	}
}

func (s *CachedUserStore) UpdateProfile(ctx context.Context, uid string, update ProfileUpdate) (*models.User, error) {
	user, err := s.UserStore.UpdateProfile(ctx, uid, update)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, uid)
	return user, nil
}

func (s *CachedUserStore) SetDeleted(ctx context.Context, uid string, deleted bool) error {
	if err := s.UserStore.SetDeleted(ctx, uid, deleted); err != nil {
		return err
	}
	s.invalidate(ctx, uid)
	return nil
}

func (s *CachedUserStore) Follow(ctx context.Context, followerUID, targetUID string) error {
	if err := s.UserStore.Follow(ctx, followerUID, targetUID); err != nil {
		return err
	}
	s.invalidate(ctx, followerUID, targetUID)
	return nil
}

func (s *CachedUserStore) Unfollow(ctx context.Context, followerUID, targetUID string) error {
	if err := s.UserStore.Unfollow(ctx, followerUID, targetUID); err != nil {
		return err
	}
	s.invalidate(ctx, followerUID, targetUID)
	return nil
}

func (s *CachedUserStore) ReplaceStreaming(ctx context.Context, uid string, streaming []int) error {
	if err := s.UserStore.ReplaceStreaming(ctx, uid, streaming); err != nil {
		return err
	}
	s.invalidate(ctx, uid)
	return nil
}

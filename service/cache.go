// file: service/cache.go

package service

import (
	"context"
	"encoding/json"
	"fanpocket-api/model"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ICacheClient defines the contract for a cache client.
// This abstraction allows us to decouple services from a concrete Redis
// implementation, enabling easier testing and future flexibility.
type ICacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// UserCache keeps sanitized user records keyed by ID so the per-request user
// load in the auth middleware does not hit postgres on every call.
type UserCache struct {
	client ICacheClient
	ttl    time.Duration
}

func NewUserCache(client ICacheClient, ttl time.Duration) *UserCache {
	return &UserCache{client: client, ttl: ttl}
}

func userCacheKey(userID int) string {
	return fmt.Sprintf("user:%d", userID)
}

// Get returns the cached sanitized user, or nil on a miss. Cache failures are
// treated as misses; the caller falls through to the database.
func (c *UserCache) Get(ctx context.Context, userID int) *model.User {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := c.client.Get(ctx, userCacheKey(userID)).Result()
	if err != nil {
		return nil
	}
	user := &model.User{}
	if err := json.Unmarshal([]byte(raw), user); err != nil {
		return nil
	}
	return user
}

// Set stores a sanitized copy of the user. Best effort: a cache write failure
// is invisible to the caller.
func (c *UserCache) Set(ctx context.Context, user *model.User) {
	if c == nil || c.client == nil || user == nil {
		return
	}
	sanitized := user.Sanitize()
	payload, err := json.Marshal(sanitized)
	if err != nil {
		return
	}
	c.client.Set(ctx, userCacheKey(user.ID), payload, c.ttl)
}

// Invalidate drops the cached entry, e.g. after a profile update.
func (c *UserCache) Invalidate(ctx context.Context, userID int) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, userCacheKey(userID))
}

// file: service/cache_test.go

package service

import (
	"context"
	"fanpocket-api/model"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestCache(t *testing.T) *UserCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewUserCache(client, 5*time.Minute)
}

func TestUserCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t)

	user := storedTestUser()
	cache.Set(ctx, user)

	cached := cache.Get(ctx, user.ID)
	assert.NotNil(t, cached)
	assert.Equal(t, user.Email, cached.Email)
	assert.Empty(t, cached.Password, "cache must only ever hold sanitized users")

	cache.Invalidate(ctx, user.ID)
	assert.Nil(t, cache.Get(ctx, user.ID))
}

func TestUserCache_MissReturnsNil(t *testing.T) {
	cache := newTestCache(t)
	assert.Nil(t, cache.Get(context.Background(), 12345))
}

func TestUserCache_NilSafe(t *testing.T) {
	ctx := context.Background()
	var cache *UserCache

	assert.Nil(t, cache.Get(ctx, 1))
	cache.Set(ctx, &model.User{ID: 1})
	cache.Invalidate(ctx, 1)
}

func TestUserService_GetUserByID_CacheAside(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t)

	mockRepo := new(mockUserRepo)
	// Exactly one database hit; the second read is served from redis.
	mockRepo.On("GetUserByID", 1).Return(storedTestUser(), nil).Once()

	userService := NewUserService(mockRepo, cache)

	first, err := userService.GetUserByID(ctx, 1)
	assert.NoError(t, err)
	second, err := userService.GetUserByID(ctx, 1)
	assert.NoError(t, err)

	assert.Equal(t, first.Email, second.Email)
	mockRepo.AssertExpectations(t)
}

func TestUserService_UpdateProfile_InvalidatesCache(t *testing.T) {
	ctx := context.Background()
	cache := newTestCache(t)

	mockRepo := new(mockUserRepo)
	mockRepo.On("GetUserByID", 1).Return(storedTestUser(), nil)
	mockRepo.On("UpdateUser", mock.AnythingOfType("*model.User")).Return(nil)

	userService := NewUserService(mockRepo, cache)

	// Warm the cache, then update; the cached copy must be gone.
	_, err := userService.GetUserByID(ctx, 1)
	assert.NoError(t, err)
	assert.NotNil(t, cache.Get(ctx, 1))

	_, err = userService.UpdateProfile(ctx, 1, model.UpdateProfileRequest{DisplayName: strPtr("New Name")})
	assert.NoError(t, err)
	assert.Nil(t, cache.Get(ctx, 1))
}

// service/user_service_test.go
package service

import (
	"context"
	"database/sql"
	"fanpocket-api/model"
	"fanpocket-api/repository"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func storedTestUser() *model.User {
	return &model.User{
		ID:          1,
		Username:    "fan",
		Email:       "fan@example.com",
		DisplayName: "Fan",
		Password:    "hashed-secret",
		Role:        "user",
		Locale:      model.LocaleEnglish,
		NotificationPreferences: map[string]bool{
			"match_start": true,
			"goals":       false,
		},
	}
}

func strPtr(s string) *string { return &s }

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid locale is rejected before any write", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		mockRepo.On("GetUserByID", 1).Return(storedTestUser(), nil).Once()

		userService := NewUserService(mockRepo, nil)
		_, err := userService.UpdateProfile(ctx, 1, model.UpdateProfileRequest{Locale: strPtr("de")})

		assert.ErrorIs(t, err, ErrInvalidLocale)
		mockRepo.AssertNotCalled(t, "UpdateUser")
	})

	t.Run("supported locale is applied", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		mockRepo.On("GetUserByID", 1).Return(storedTestUser(), nil).Once()
		mockRepo.On("UpdateUser", mock.AnythingOfType("*model.User")).Return(nil).Once()

		userService := NewUserService(mockRepo, nil)
		updated, err := userService.UpdateProfile(ctx, 1, model.UpdateProfileRequest{Locale: strPtr(model.LocaleFrench)})

		assert.NoError(t, err)
		assert.Equal(t, model.LocaleFrench, updated.Locale)
		assert.Empty(t, updated.Password, "returned user must be sanitized")
		mockRepo.AssertExpectations(t)
	})

	t.Run("preferences merge instead of replacing", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		mockRepo.On("GetUserByID", 1).Return(storedTestUser(), nil).Once()
		mockRepo.On("UpdateUser", mock.AnythingOfType("*model.User")).Return(nil).Once()

		userService := NewUserService(mockRepo, nil)
		updated, err := userService.UpdateProfile(ctx, 1, model.UpdateProfileRequest{
			Preferences: map[string]bool{"goals": true, "transfers": true},
		})

		assert.NoError(t, err)
		assert.Equal(t, map[string]bool{
			"match_start": true, // untouched key survives
			"goals":       true, // overridden
			"transfers":   true, // added
		}, updated.NotificationPreferences)
	})

	t.Run("duplicate email maps to ErrEmailTaken", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		mockRepo.On("GetUserByID", 1).Return(storedTestUser(), nil).Once()
		mockRepo.On("UpdateUser", mock.Anything).Return(repository.ErrDuplicateEmail).Once()

		userService := NewUserService(mockRepo, nil)
		_, err := userService.UpdateProfile(ctx, 1, model.UpdateProfileRequest{Email: strPtr("taken@example.com")})

		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("display name only", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		mockRepo.On("GetUserByID", 1).Return(storedTestUser(), nil).Once()
		mockRepo.On("UpdateUser", mock.AnythingOfType("*model.User")).Return(nil).Once()

		userService := NewUserService(mockRepo, nil)
		updated, err := userService.UpdateProfile(ctx, 1, model.UpdateProfileRequest{DisplayName: strPtr("Ultra Fan")})

		assert.NoError(t, err)
		assert.Equal(t, "Ultra Fan", updated.DisplayName)
		assert.Equal(t, "fan@example.com", updated.Email)
	})
}

func TestUserService_GetUserByID(t *testing.T) {
	ctx := context.Background()

	t.Run("returns sanitized user", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		mockRepo.On("GetUserByID", 1).Return(storedTestUser(), nil).Once()

		userService := NewUserService(mockRepo, nil)
		user, err := userService.GetUserByID(ctx, 1)

		assert.NoError(t, err)
		assert.Equal(t, "fan@example.com", user.Email)
		assert.Empty(t, user.Password)
	})

	t.Run("missing user maps to ErrUserNotFound", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		mockRepo.On("GetUserByID", 99).Return(nil, sql.ErrNoRows).Once()

		userService := NewUserService(mockRepo, nil)
		_, err := userService.GetUserByID(ctx, 99)

		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

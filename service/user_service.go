package service

import (
	"context"
	"database/sql"
	"errors"
	"fanpocket-api/model"
	"fanpocket-api/repository"
)

var ErrInvalidLocale = errors.New("invalid locale specified")

// UserService handles user-related business logic.
type UserService struct {
	userRepo repository.IUserRepository
	cache    *UserCache
}

// NewUserService creates a new UserService. The cache may be nil; lookups
// then always go to the database.
func NewUserService(userRepo repository.IUserRepository, cache *UserCache) *UserService {
	return &UserService{userRepo: userRepo, cache: cache}
}

// GetUserByID returns the sanitized user, cache-aside.
func (s *UserService) GetUserByID(ctx context.Context, userID int) (*model.User, error) {
	if cached := s.cache.Get(ctx, userID); cached != nil {
		return cached, nil
	}

	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	s.cache.Set(ctx, user)
	sanitized := user.Sanitize()
	return &sanitized, nil
}

// UpdateProfile applies a partial profile update. Locale must be one of the
// supported values; an email change re-checks uniqueness; preference keys are
// merged into the stored map instead of replacing it wholesale. The password
// is not touchable through this path.
func (s *UserService) UpdateProfile(ctx context.Context, userID int, req model.UpdateProfileRequest) (*model.User, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.Locale != nil {
		if !model.SupportedLocales[*req.Locale] {
			return nil, ErrInvalidLocale
		}
		user.Locale = *req.Locale
	}
	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if len(req.Preferences) > 0 {
		if user.NotificationPreferences == nil {
			user.NotificationPreferences = map[string]bool{}
		}
		for key, value := range req.Preferences {
			user.NotificationPreferences[key] = value
		}
	}

	if err := s.userRepo.UpdateUser(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	// The cached copy is stale now; drop it so the next read reloads.
	s.cache.Invalidate(ctx, userID)

	sanitized := user.Sanitize()
	return &sanitized, nil
}

package service

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fanpocket-api/config"
	"fanpocket-api/logger"
	"fanpocket-api/model"
	"fanpocket-api/repository"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Errors returned by the auth service. Credential and token failures are
// deliberately generic: the client never learns whether an email exists or
// why exactly a token was rejected.
var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidAccessToken  = errors.New("invalid access token")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrEmailTaken          = errors.New("email is already registered")
	ErrUsernameTaken       = errors.New("username is already taken")
	ErrUserNotFound        = errors.New("user not found")
)

// TokenPair is what a successful register/login/refresh hands back to the
// handler layer: the access token travels in the JSON body, the refresh token
// only ever in its HTTP-only cookie.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"-"`
}

// AuthService orchestrates registration, login, refresh-token rotation and
// logout on top of the user and token repositories.
type AuthService struct {
	userRepo  repository.IUserRepository
	tokenRepo repository.ITokenRepository
}

func NewAuthService(userRepo repository.IUserRepository, tokenRepo repository.ITokenRepository) *AuthService {
	return &AuthService{userRepo: userRepo, tokenRepo: tokenRepo}
}

func accessKey() []byte {
	return []byte(config.AppConfig.JWT.AccessSecret)
}

func refreshKey() []byte {
	return []byte(config.AppConfig.JWT.RefreshSecret)
}

func bcryptCost() int {
	if c := config.AppConfig.Auth.BcryptCost; c >= bcrypt.MinCost {
		return c
	}
	return 12
}

// HashPassword hashes with bcrypt; the per-call salt is embedded in the
// output. This is the slow, CPU-bound step of every auth attempt.
func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost())
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), nil
}

// CheckPasswordHash never errors on mismatch, it only reports false.
func (s *AuthService) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateAccessToken signs a short-lived token carrying the user's identity.
func (s *AuthService) GenerateAccessToken(user *model.User) (string, error) {
	now := time.Now()
	claims := &model.AppClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(config.AppConfig.Auth.AccessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(accessKey())
	if err != nil {
		logger.Log.WithError(err).WithField("email", user.Email).Error("Failed to sign access token")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}

	return tokenString, nil
}

// VerifyAccessToken validates signature and expiry and returns the claims.
func (s *AuthService) VerifyAccessToken(tokenString string) (*model.AppClaims, error) {
	claims := &model.AppClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return accessKey(), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidAccessToken
	}
	return claims, nil
}

// GenerateRefreshToken signs an opaque token carrying no user identity, only
// a random jti and an expiry. Identity is recovered later by hashing the raw
// value and looking it up in the store.
func (s *AuthService) GenerateRefreshToken() (string, error) {
	now := time.Now()
	claims := &jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(config.AppConfig.Auth.RefreshTokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(refreshKey())
	if err != nil {
		logger.Log.WithError(err).Error("Failed to sign refresh token")
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return tokenString, nil
}

// VerifyRefreshTokenSignature checks signature and expiry only; it does not
// establish which user the token belongs to.
func (s *AuthService) VerifyRefreshTokenSignature(tokenString string) bool {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return refreshKey(), nil
	})
	return err == nil && token.Valid
}

// HashOpaqueToken is a deterministic lookup key, not a work-factor hash: the
// raw token is already a signed random value with plenty of entropy.
func (s *AuthService) HashOpaqueToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// issueTokenPair mints both tokens and persists the refresh token's hash with
// its issuance metadata.
func (s *AuthService) issueTokenPair(user *model.User, userAgent, ip string) (*TokenPair, error) {
	accessToken, err := s.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	entry := &model.RefreshToken{
		UserID:    user.ID,
		TokenHash: s.HashOpaqueToken(refreshToken),
		UserAgent: userAgent,
		IP:        ip,
		ExpiresAt: time.Now().Add(config.AppConfig.Auth.RefreshTokenTTL),
	}
	if err := s.tokenRepo.Create(entry); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Register creates the user and starts their first session.
func (s *AuthService) Register(req model.RegisterRequest, userAgent, ip string) (*model.User, *TokenPair, error) {
	hashedPassword, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, nil, err
	}

	user := &model.User{
		Username:                req.Username,
		Email:                   req.Email,
		DisplayName:             req.DisplayName,
		Password:                hashedPassword,
		Locale:                  model.LocaleEnglish,
		NotificationPreferences: map[string]bool{},
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, nil, ErrEmailTaken
		case errors.Is(err, repository.ErrDuplicateUsername):
			return nil, nil, ErrUsernameTaken
		}
		return nil, nil, err
	}

	pair, err := s.issueTokenPair(user, userAgent, ip)
	if err != nil {
		return nil, nil, err
	}

	logger.Log.WithField("user_id", user.ID).Info("User registered")
	return user, pair, nil
}

// Login authenticates by email and password. Both failure paths (unknown
// email, wrong password) take approximately the same wall-clock time: the
// remainder of the configured failure delay is slept before returning, so
// response timing does not reveal whether the email exists.
func (s *AuthService) Login(email, password, userAgent, ip string) (*model.User, *TokenPair, error) {
	start := time.Now()

	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).Error("Failed to look up user by email")
		}
		s.sleepOutFailureDelay(start)
		return nil, nil, ErrInvalidCredentials
	}

	if !s.CheckPasswordHash(password, user.Password) {
		s.sleepOutFailureDelay(start)
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokenPair(user, userAgent, ip)
	if err != nil {
		return nil, nil, err
	}

	logger.Log.WithField("user_id", user.ID).Info("User logged in")
	return user, pair, nil
}

func (s *AuthService) sleepOutFailureDelay(start time.Time) {
	if remaining := config.AppConfig.Auth.LoginFailureDelay - time.Since(start); remaining > 0 {
		time.Sleep(remaining)
	}
}

// Refresh rotates a refresh token: verify signature and expiry, consume the
// stored hash (exactly once, even under races), and issue a fresh pair. A
// token that was already rotated out fails closed with the same generic
// error as a forged one.
func (s *AuthService) Refresh(rawToken, userAgent, ip string) (*model.User, *TokenPair, error) {
	if !s.VerifyRefreshTokenSignature(rawToken) {
		return nil, nil, ErrInvalidRefreshToken
	}

	userID, err := s.tokenRepo.ConsumeByTokenHash(s.HashOpaqueToken(rawToken))
	if err != nil {
		if err != sql.ErrNoRows {
			return nil, nil, err
		}
		return nil, nil, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		// The account vanished between issuance and refresh.
		return nil, nil, ErrInvalidRefreshToken
	}

	pair, err := s.issueTokenPair(user, userAgent, ip)
	if err != nil {
		return nil, nil, err
	}

	logger.Log.WithField("user_id", user.ID).Info("Refresh token rotated")
	return user, pair, nil
}

// Logout removes exactly the session matching the presented refresh token.
// It is idempotent: an absent or already-removed token is not an error.
func (s *AuthService) Logout(userID int, rawRefreshToken string) error {
	if rawRefreshToken == "" {
		return nil
	}
	return s.tokenRepo.DeleteByUserIDAndHash(userID, s.HashOpaqueToken(rawRefreshToken))
}

// LogoutAll removes every session the user has.
func (s *AuthService) LogoutAll(userID int) error {
	return s.tokenRepo.DeleteByUserID(userID)
}

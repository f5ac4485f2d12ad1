// file: repository/token_repository.go

package repository

import (
	"database/sql"
	"fanpocket-api/logger"
	"fanpocket-api/model"

	"github.com/sirupsen/logrus"
)

// ITokenRepository defines the contract for refresh token database operations.
type ITokenRepository interface {
	Create(token *model.RefreshToken) error
	ConsumeByTokenHash(tokenHash string) (int, error)
	DeleteByUserIDAndHash(userID int, tokenHash string) error
	DeleteByUserID(userID int) error
	DeleteExpired() (int64, error)
}

// TokenRepository implements ITokenRepository.
type TokenRepository struct {
	DB *sql.DB
	// MaxPerUser caps the number of stored entries per user; the oldest
	// entries beyond the cap are evicted on every insert. Zero disables the
	// cap.
	MaxPerUser int
}

// NewTokenRepository creates a new TokenRepository.
func NewTokenRepository(db *sql.DB, maxPerUser int) *TokenRepository {
	return &TokenRepository{DB: db, MaxPerUser: maxPerUser}
}

// Create inserts a new refresh token record and evicts the user's oldest
// entries beyond MaxPerUser, so a device that never logs out cannot grow the
// list without bound.
func (r *TokenRepository) Create(token *model.RefreshToken) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":    token.UserID,
		"expires_at": token.ExpiresAt,
	})

	query := `INSERT INTO refresh_tokens (user_id, token_hash, user_agent, ip, expires_at)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	err := r.DB.QueryRow(query, token.UserID, token.TokenHash, token.UserAgent, token.IP, token.ExpiresAt).
		Scan(&token.ID, &token.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create refresh token query")
		return err
	}

	if r.MaxPerUser > 0 {
		evictQuery := `DELETE FROM refresh_tokens
		               WHERE user_id = $1 AND id NOT IN (
		                   SELECT id FROM refresh_tokens
		                   WHERE user_id = $1
		                   ORDER BY created_at DESC, id DESC
		                   LIMIT $2
		               )`
		if _, err := r.DB.Exec(evictQuery, token.UserID, r.MaxPerUser); err != nil {
			log.WithError(err).Error("Failed to evict oldest refresh tokens")
			return err
		}
	}
	return nil
}

// ConsumeByTokenHash atomically removes the entry matching the hash and
// returns the owning user's ID. The single DELETE ... RETURNING statement is
// what guarantees that two racing consumers of the same token get exactly one
// success and one sql.ErrNoRows.
func (r *TokenRepository) ConsumeByTokenHash(tokenHash string) (int, error) {
	var userID int
	query := `DELETE FROM refresh_tokens WHERE token_hash = $1 AND expires_at > now() RETURNING user_id`
	err := r.DB.QueryRow(query, tokenHash).Scan(&userID)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).Error("Failed to execute consume refresh token query")
		}
		return 0, err // sql.ErrNoRows when already consumed, expired or never issued.
	}
	return userID, nil
}

// DeleteByUserIDAndHash removes one specific entry for a user. Used by logout
// so that other devices' sessions stay untouched.
func (r *TokenRepository) DeleteByUserIDAndHash(userID int, tokenHash string) error {
	query := `DELETE FROM refresh_tokens WHERE user_id = $1 AND token_hash = $2`
	_, err := r.DB.Exec(query, userID, tokenHash)
	if err != nil {
		logger.Log.WithField("user_id", userID).WithError(err).Error("Failed to delete refresh token")
	}
	return err
}

// DeleteByUserID deletes all refresh tokens for a specific user.
// This is used for logging out from all sessions.
func (r *TokenRepository) DeleteByUserID(userID int) error {
	query := `DELETE FROM refresh_tokens WHERE user_id = $1`
	_, err := r.DB.Exec(query, userID)
	if err != nil {
		logger.Log.WithField("user_id", userID).WithError(err).Error("Failed to delete refresh tokens for user")
	}
	return err
}

// DeleteExpired removes entries past their signed expiry. Called by the
// background sweep; consume-on-use alone would leave abandoned sessions in
// the table forever.
func (r *TokenRepository) DeleteExpired() (int64, error) {
	res, err := r.DB.Exec(`DELETE FROM refresh_tokens WHERE expires_at <= now()`)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to delete expired refresh tokens")
		return 0, err
	}
	return res.RowsAffected()
}

// file: repository/token_repository_test.go

package repository

import (
	"database/sql"
	"fanpocket-api/model"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestTokenRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewTokenRepository(db, 10)
	now := time.Now()
	token := &model.RefreshToken{
		UserID:    1,
		TokenHash: "abc123",
		UserAgent: "test-agent",
		IP:        "127.0.0.1",
		ExpiresAt: now.Add(time.Hour),
	}

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO refresh_tokens`)).
		WithArgs(1, "abc123", "test-agent", "127.0.0.1", token.ExpiresAt).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(42, now))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM refresh_tokens`)).
		WithArgs(1, 10).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Create(token)
	assert.NoError(t, err)
	assert.Equal(t, 42, token.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepository_CreateWithoutCapSkipsEviction(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewTokenRepository(db, 0)
	token := &model.RefreshToken{UserID: 1, TokenHash: "abc123", ExpiresAt: time.Now().Add(time.Hour)}

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO refresh_tokens`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, time.Now()))

	assert.NoError(t, repo.Create(token))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepository_ConsumeByTokenHash(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		repo := NewTokenRepository(db, 10)
		mock.ExpectQuery(regexp.QuoteMeta(`DELETE FROM refresh_tokens WHERE token_hash = $1 AND expires_at > now() RETURNING user_id`)).
			WithArgs("abc123").
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(7))

		userID, err := repo.ConsumeByTokenHash("abc123")
		assert.NoError(t, err)
		assert.Equal(t, 7, userID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already consumed or never issued", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		repo := NewTokenRepository(db, 10)
		mock.ExpectQuery(regexp.QuoteMeta(`DELETE FROM refresh_tokens`)).
			WithArgs("gone").
			WillReturnError(sql.ErrNoRows)

		_, err = repo.ConsumeByTokenHash("gone")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestTokenRepository_DeleteByUserIDAndHash(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewTokenRepository(db, 10)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM refresh_tokens WHERE user_id = $1 AND token_hash = $2`)).
		WithArgs(3, "abc123").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.DeleteByUserIDAndHash(3, "abc123"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepository_DeleteExpired(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewTokenRepository(db, 10)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM refresh_tokens WHERE expires_at <= now()`)).
		WillReturnResult(sqlmock.NewResult(0, 5))

	removed, err := repo.DeleteExpired()
	assert.NoError(t, err)
	assert.Equal(t, int64(5), removed)
}

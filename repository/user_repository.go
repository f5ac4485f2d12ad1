package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fanpocket-api/model"

	"github.com/lib/pq"
)

// Duplicate-key errors are surfaced as distinct sentinels so the service
// layer can tell the client which field collided without a racy pre-check.
var (
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrDuplicateUsername = errors.New("username already exists")
)

// IUserRepository defines the contract for user database operations.
type IUserRepository interface {
	CreateUser(user *model.User) error
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	UpdateUser(user *model.User) error
}

// UserRepository implements IUserRepository.
type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

const uniqueViolation = "23505"

// mapUniqueViolation translates a pq unique-violation into the sentinel for
// the constraint that fired.
func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		switch pqErr.Constraint {
		case "users_email_key":
			return ErrDuplicateEmail
		case "users_username_key":
			return ErrDuplicateUsername
		}
	}
	return err
}

func (r *UserRepository) CreateUser(user *model.User) error {
	prefs, err := json.Marshal(user.NotificationPreferences)
	if err != nil {
		return err
	}

	query := `INSERT INTO users (username, email, display_name, password, locale, notification_preferences)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id, role, created_at, updated_at`
	err = r.DB.QueryRow(query, user.Username, user.Email, user.DisplayName, user.Password, user.Locale, prefs).
		Scan(&user.ID, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return mapUniqueViolation(err)
	}
	return nil
}

const userColumns = `id, username, email, display_name, password, role, locale, notification_preferences, created_at, updated_at`

func scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	var prefs []byte
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.DisplayName, &user.Password,
		&user.Role, &user.Locale, &prefs, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(prefs) > 0 {
		if err := json.Unmarshal(prefs, &user.NotificationPreferences); err != nil {
			return nil, err
		}
	}
	return user, nil
}

func (r *UserRepository) GetUserByEmail(email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return scanUser(r.DB.QueryRow(query, email))
}

func (r *UserRepository) GetUserByID(id int) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.DB.QueryRow(query, id))
}

// UpdateUser persists the mutable profile fields of an already-loaded user.
func (r *UserRepository) UpdateUser(user *model.User) error {
	prefs, err := json.Marshal(user.NotificationPreferences)
	if err != nil {
		return err
	}

	query := `UPDATE users
	          SET display_name = $1, email = $2, locale = $3, notification_preferences = $4, updated_at = now()
	          WHERE id = $5
	          RETURNING updated_at`
	err = r.DB.QueryRow(query, user.DisplayName, user.Email, user.Locale, prefs, user.ID).
		Scan(&user.UpdatedAt)
	if err != nil {
		return mapUniqueViolation(err)
	}
	return nil
}

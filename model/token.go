// file: model/token.go

package model

import "time"

// RefreshToken holds the data for a refresh token in the database. Only the
// SHA-256 hash of the raw token is ever stored; a database dump does not
// contain usable tokens.
type RefreshToken struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	TokenHash string    `json:"-"` // The hash is not exposed in JSON responses.
	UserAgent string    `json:"user_agent,omitempty"`
	IP        string    `json:"ip,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

package model

import "github.com/golang-jwt/jwt/v5"

// AppClaims is the access-token payload. Refresh tokens intentionally carry
// no app claims: ownership is established by hashing the raw token and
// looking it up in the refresh_tokens table.
type AppClaims struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

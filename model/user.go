package model

import "time"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Locale values supported by the site.
const (
	LocaleEnglish = "en"
	LocaleFrench  = "fr"
	LocaleArabic  = "ar"
)

// SupportedLocales is the whitelist checked on profile updates.
var SupportedLocales = map[string]bool{
	LocaleEnglish: true,
	LocaleFrench:  true,
	LocaleArabic:  true,
}

type User struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	// The bcrypt hash. Never serialized; Sanitize clears it as well so a copy
	// that leaves the service boundary carries no secret even if the tag is
	// ever dropped.
	Password                string          `json:"-"`
	Role                    string          `json:"role"`
	Locale                  string          `json:"locale"`
	NotificationPreferences map[string]bool `json:"notification_preferences,omitempty"`
	CreatedAt               time.Time       `json:"created_at"`
	UpdatedAt               time.Time       `json:"updated_at"`
}

// Sanitize returns a copy safe to serialize to clients.
func (u User) Sanitize() User {
	u.Password = ""
	return u
}

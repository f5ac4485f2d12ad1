// file: model/request.go

package model

// RegisterRequest defines the payload for creating a new user.
// It includes validation tags to ensure data integrity at the entry point.
type RegisterRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=50"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"display_name" validate:"omitempty,max=100"`
}

// LoginRequest defines the payload for user authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// UpdateProfileRequest defines the payload for PATCH /auth/me. All fields are
// optional; absent fields leave the stored value untouched. Password changes
// are deliberately not bindable on this path.
type UpdateProfileRequest struct {
	DisplayName *string         `json:"display_name" validate:"omitempty,max=100"`
	Email       *string         `json:"email" validate:"omitempty,email"`
	Locale      *string         `json:"locale" validate:"omitempty,oneof=en fr ar"`
	Preferences map[string]bool `json:"preferences" validate:"omitempty"`
}

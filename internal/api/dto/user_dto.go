package dto

import "time"

// UserRegisterRequest payload for new citizen accounts.
type UserRegisterRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone"`
	Password string  `json:"password"`
}

// UserLoginRequest payload for login. Identifier is email or phone.
type UserLoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// VerifyEmailRequest carries the one-shot verification token.
type VerifyEmailRequest struct {
	Token string `json:"token"`
}

// UserResponse is the public account view.
type UserResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      *string `json:"phone,omitempty"`
	Role       string  `json:"role"`
	IsVerified bool    `json:"is_verified"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

package model

import "time"

// User represents a user in the flat-file user table.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password"`
	Avatar       string    `json:"avatar"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a user login request. Username accepts either
// a username or an email address.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserPayload represents user data safe for API responses (no credentials).
// Name falls back to the username when no display name is set.
type UserPayload struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
	Name     string `json:"name"`
}

// AuthResponse is the envelope returned by the auth endpoints. Success and
// Message are always present; User and Token only on the success path.
type AuthResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    *UserPayload `json:"user,omitempty"`
	Token   string       `json:"token,omitempty"`
	Storage string       `json:"storage,omitempty"`
}

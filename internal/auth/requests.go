package auth

import "strings"

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Email    string `json:"email" validate:"email" errmsg:"Invalid email"`
	Password string `json:"password" validate:"min=6" errmsg:"Password must be at least 6 characters"`
}

func (r *RegisterRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" validate:"email" errmsg:"Invalid email"`
	Password string `json:"password" validate:"min=6" errmsg:"Password must be at least 6 characters"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

package api

import "github.com/opskit/stockroom/pkg/auth"

// SignupRequest is the body of POST /signup
type SignupRequest struct {
	Username string    `json:"username"`
	Password string    `json:"password"`
	Role     auth.Role `json:"role,omitempty"`
}

// LoginRequest is the body of POST /login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is the body of a successful login
type TokenResponse struct {
	Token string `json:"token"`
}

// UpdateUserRequest is the body of PUT /api/v1/users/{id}. Empty fields
// are left unchanged.
type UpdateUserRequest struct {
	Username string    `json:"username,omitempty"`
	Role     auth.Role `json:"role,omitempty"`
}

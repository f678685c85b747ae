package dto

import "time"

// AuthLoginRequest is the login request payload.
type AuthLoginRequest struct {
	UserName string `json:"user_name" binding:"required,max=64"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned after successful login.
type AuthResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	Account   AccountSummary `json:"account"`
}

// MeResponse describes the current principal with its resolved codes.
type MeResponse struct {
	Account     AccountSummary `json:"account"`
	Roles       []string       `json:"roles"`
	Permissions []string       `json:"permissions"`
}

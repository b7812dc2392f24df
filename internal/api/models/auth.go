package models

// LoginRequest is the body for POST /v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned on successful authentication.
type LoginResponse struct {
	Status    string    `json:"status"`
	Token     string    `json:"token"`
	ExpiresAt Timestamp `json:"expiresAt"`
	User      User      `json:"user"`
}

// RegisterResponse is returned on successful registration.
type RegisterResponse struct {
	UserID string `json:"userId"`
}

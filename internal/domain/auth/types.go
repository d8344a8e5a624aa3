package auth

import "time"

// Config holds curator authentication settings.
type Config struct {
	JWTSecret string
	AccessTTL time.Duration
	// Curator credentials are provisioned at deploy time; there is no
	// self-service registration.
	CuratorUsername     string
	CuratorPasswordHash string
}

// LoginRequest carries curator credentials.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse returns the issued access token.
type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Claims is the validated token payload.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

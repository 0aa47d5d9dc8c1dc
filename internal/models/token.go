package models

import "time"

// TokenResponse is returned by POST /token and POST /token/refresh
type TokenResponse struct {
	Access    string    `json:"access"`
	Refresh   string    `json:"refresh"`
	TokenType string    `json:"token_type"`
	ExpiresIn int       `json:"expires_in"`
	IssuedAt  time.Time `json:"issued_at"`
}

// RefreshSession is what the cache stores for an issued refresh token.
type RefreshSession struct {
	UserID    int64     `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

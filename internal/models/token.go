package models

import "time"

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenClaims is the verified content of an access or refresh token.
type TokenClaims struct {
	ID        string
	UserID    int64
	Type      string
	Username  string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

package domain

import "time"

// SessionClaims are the identity fields carried inside a session token.
type SessionClaims struct {
	TokenID   string
	SubjectID string
	Username  string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

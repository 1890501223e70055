package ports

import (
	"context"
	"time"

	"github.com/dsalta/compliance-api/internal/core/domain"
)

// CreateUserInput carries the fields for a new account. Password is plaintext
// and must never be logged.
type CreateUserInput struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
	Role      domain.Role
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token string
	User  domain.UserProfile
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Logout(ctx context.Context, rawToken string) error
	ListUsers(ctx context.Context) ([]*domain.User, error)
}

// Authenticator turns a raw bearer token into a verified principal.
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (domain.Principal, error)
}

// TokenService issues and verifies signed session tokens.
type TokenService interface {
	Issue(user *domain.User) (string, domain.SessionClaims, error)
	Verify(rawToken string) (domain.SessionClaims, error)
}

// RevocationStore remembers token ids that were logged out before expiry.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

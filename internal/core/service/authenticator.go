package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dsalta/compliance-api/internal/core/domain"
	"github.com/dsalta/compliance-api/internal/core/ports"
)

var _ ports.Authenticator = (*Authenticator)(nil)

// Authenticator verifies a bearer token and re-checks its subject against
// the credential store on every call, so deactivation and role changes take
// effect before the token expires.
type Authenticator struct {
	tokens  ports.TokenService
	users   *CredentialStore
	revoked ports.RevocationStore
}

// NewAuthenticator returns an Authenticator. revoked may be nil.
func NewAuthenticator(tokens ports.TokenService, users *CredentialStore, revoked ports.RevocationStore) *Authenticator {
	return &Authenticator{tokens: tokens, users: users, revoked: revoked}
}

func (a *Authenticator) Authenticate(ctx context.Context, raw string) (domain.Principal, error) {
	claims, err := a.tokens.Verify(raw)
	if err != nil {
		return domain.Principal{}, err
	}

	if a.revoked != nil {
		revoked, err := a.revoked.IsRevoked(ctx, claims.TokenID)
		if err != nil {
			return domain.Principal{}, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return domain.Principal{}, fmt.Errorf("token revoked: %w", domain.ErrUnauthenticated)
		}
	}

	user, err := a.users.FindByID(ctx, claims.SubjectID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.Principal{}, fmt.Errorf("user not found or inactive: %w", domain.ErrUnauthenticated)
	}
	if err != nil {
		return domain.Principal{}, fmt.Errorf("load user: %w", err)
	}
	if !user.IsActive {
		return domain.Principal{}, fmt.Errorf("user not found or inactive: %w", domain.ErrUnauthenticated)
	}

	return user.Principal(), nil
}

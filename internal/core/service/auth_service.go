package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dsalta/compliance-api/internal/core/domain"
	"github.com/dsalta/compliance-api/internal/core/ports"
)

var _ ports.AuthService = (*AuthService)(nil)

// AuthService implements login, logout and the admin user listing.
type AuthService struct {
	users   *CredentialStore
	tokens  ports.TokenService
	revoked ports.RevocationStore
	log     zerolog.Logger
	now     func() time.Time
}

// NewAuthService returns an AuthService. Without a revocation store Logout is
// a no-op and tokens stay valid until they expire.
func NewAuthService(users *CredentialStore, tokens ports.TokenService, revoked ports.RevocationStore, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, revoked: revoked, log: log, now: time.Now}
}

// Login returns domain.ErrInvalidCredentials for an unknown user, a wrong
// password and an inactive account alike.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("login: %w", err)
	}
	if !s.users.VerifyPassword(user, password) || !user.IsActive {
		s.log.Info().Str("username", username).Msg("login rejected")
		return nil, domain.ErrInvalidCredentials
	}

	token, _, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("login succeeded")
	return &ports.LoginResult{Token: token, User: user.Profile()}, nil
}

// Logout revokes rawToken for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	if s.revoked == nil {
		return nil
	}

	claims, err := s.tokens.Verify(rawToken)
	if err != nil {
		return err
	}

	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.revoked.Revoke(ctx, claims.TokenID, ttl); err != nil {
		return fmt.Errorf("logout: %w", err)
	}

	s.log.Info().Str("user_id", claims.SubjectID).Msg("token revoked")
	return nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.ListAll(ctx)
}

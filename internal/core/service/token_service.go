package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dsalta/compliance-api/internal/core/domain"
	"github.com/dsalta/compliance-api/internal/core/ports"
)

var _ ports.TokenService = (*TokenService)(nil)

// sessionClaims is the JWT payload. Subject carries the user id and ID the
// token id used for revocation.
type sessionClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 session tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration, issuer string) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: issuer,
		now:    time.Now,
	}
}

// Issue returns a signed token for user together with the claims it encodes.
func (s *TokenService) Issue(user *domain.User) (string, domain.SessionClaims, error) {
	now := s.now().UTC().Truncate(time.Second)
	claims := sessionClaims{
		Username: user.Username,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", domain.SessionClaims{}, fmt.Errorf("sign token: %w", err)
	}

	return signed, domain.SessionClaims{
		TokenID:   claims.ID,
		SubjectID: user.ID,
		Username:  user.Username,
		Role:      user.Role,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}, nil
}

// Verify checks signature, algorithm, issuer and expiry. Every failure is
// reported as domain.ErrInvalidToken.
func (s *TokenService) Verify(raw string) (domain.SessionClaims, error) {
	if raw == "" {
		return domain.SessionClaims{}, domain.ErrInvalidToken
	}

	var claims sessionClaims
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return domain.SessionClaims{}, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return domain.SessionClaims{}, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}
	if claims.Subject == "" || claims.ID == "" {
		return domain.SessionClaims{}, fmt.Errorf("%w: %w", domain.ErrInvalidToken, errors.New("missing sub or jti"))
	}

	out := domain.SessionClaims{
		TokenID:   claims.ID,
		SubjectID: claims.Subject,
		Username:  claims.Username,
		Role:      role,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}

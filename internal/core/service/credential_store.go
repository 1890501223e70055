package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dsalta/compliance-api/internal/core/domain"
	"github.com/dsalta/compliance-api/internal/core/ports"
)

// ErrInvalidUserInput is returned by Create for an empty username or password
// or an unknown role.
var ErrInvalidUserInput = errors.New("invalid user input")

// CredentialStore owns user records and password verification. It is the
// only place a plaintext password is handled.
type CredentialStore struct {
	repo ports.UserRepository
	cost int
	// dummyHash is compared against when a login names an unknown user so
	// both paths spend the same bcrypt time.
	dummyHash []byte
}

func NewCredentialStore(repo ports.UserRepository, cost int) (*CredentialStore, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range", cost)
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("compliance-api"), cost)
	if err != nil {
		return nil, fmt.Errorf("credential store: %w", err)
	}
	return &CredentialStore{repo: repo, cost: cost, dummyHash: dummy}, nil
}

// Create hashes in.Password and persists a new active user. A username
// conflict yields domain.ErrUserExists.
func (s *CredentialStore) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	if strings.TrimSpace(in.Username) == "" || in.Password == "" || !in.Role.Valid() {
		return nil, ErrInvalidUserInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	return s.repo.Create(ctx, &domain.User{
		Username:     in.Username,
		PasswordHash: string(hash),
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         in.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func (s *CredentialStore) Exists(ctx context.Context, username string) (bool, error) {
	return s.repo.ExistsByUsername(ctx, username)
}

func (s *CredentialStore) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.repo.FindByUsername(ctx, username)
}

func (s *CredentialStore) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// ListAll returns every user. The password hash is never serialized.
func (s *CredentialStore) ListAll(ctx context.Context) ([]*domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []*domain.User{}
	}
	return users, nil
}

// VerifyPassword reports whether password matches user's hash. A nil user is
// checked against a dummy hash and always fails.
func (s *CredentialStore) VerifyPassword(user *domain.User, password string) bool {
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

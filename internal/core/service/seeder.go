package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dsalta/compliance-api/internal/core/domain"
	"github.com/dsalta/compliance-api/internal/core/ports"
)

// Seeder creates a fixed set of accounts when they are missing. Running it
// again is a no-op.
type Seeder struct {
	users *CredentialStore
	log   zerolog.Logger
}

func NewSeeder(users *CredentialStore, log zerolog.Logger) *Seeder {
	return &Seeder{users: users, log: log}
}

// DefaultSeedUsers returns the development accounts admin and user with the
// given passwords.
func DefaultSeedUsers(adminPassword, userPassword string) []ports.CreateUserInput {
	return []ports.CreateUserInput{
		{
			Username:  "admin",
			Password:  adminPassword,
			Email:     "admin@compliance.com",
			FirstName: "System",
			LastName:  "Administrator",
			Role:      domain.RoleAdmin,
		},
		{
			Username:  "user",
			Password:  userPassword,
			Email:     "user@compliance.com",
			FirstName: "Standard",
			LastName:  "User",
			Role:      domain.RoleStandard,
		},
	}
}

// Seed creates every account in users that does not exist yet and returns
// how many were created.
func (s *Seeder) Seed(ctx context.Context, users []ports.CreateUserInput) (int, error) {
	created := 0
	for _, in := range users {
		exists, err := s.users.Exists(ctx, in.Username)
		if err != nil {
			return created, fmt.Errorf("seed %s: %w", in.Username, err)
		}
		if exists {
			continue
		}
		if _, err := s.users.Create(ctx, in); err != nil {
			return created, fmt.Errorf("seed %s: %w", in.Username, err)
		}
		created++
		s.log.Warn().
			Str("username", in.Username).
			Str("role", string(in.Role)).
			Msg("seeded account with a well-known password; development use only")
	}
	return created, nil
}

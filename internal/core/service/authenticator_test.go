package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dsalta/compliance-api/internal/core/domain"
	"github.com/dsalta/compliance-api/internal/core/ports"
)

type authFixture struct {
	repo    *stubUserRepo
	store   *CredentialStore
	tokens  *TokenService
	revoked *stubRevocations
	authn   *Authenticator
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	repo := newStubUserRepo()
	store := newTestStore(repo)
	tokens := NewTokenService(testSecret, time.Hour, "compliance-api")
	revoked := newStubRevocations()
	return &authFixture{
		repo:    repo,
		store:   store,
		tokens:  tokens,
		revoked: revoked,
		authn:   NewAuthenticator(tokens, store, revoked),
	}
}

func (f *authFixture) createUser(t *testing.T, username string, role domain.Role) (*domain.User, string) {
	t.Helper()
	u, err := f.store.Create(context.Background(), ports.CreateUserInput{Username: username, Password: "pw", Role: role})
	if err != nil {
		t.Fatalf("create %s: %v", username, err)
	}
	token, _, err := f.tokens.Issue(u)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return u, token
}

func TestAuthenticator_ValidToken(t *testing.T) {
	f := newAuthFixture(t)
	u, token := f.createUser(t, "alice", domain.RoleStandard)

	p, err := f.authn.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if p.ID != u.ID || p.Username != "alice" || p.Role != domain.RoleStandard {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestAuthenticator_UsesCurrentRole(t *testing.T) {
	f := newAuthFixture(t)
	_, token := f.createUser(t, "alice", domain.RoleStandard)

	f.repo.mutate("alice", func(u *domain.User) { u.Role = domain.RoleAdmin })

	p, err := f.authn.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if p.Role != domain.RoleAdmin {
		t.Fatalf("expected role from current user state, got %s", p.Role)
	}
}

func TestAuthenticator_InactiveUser(t *testing.T) {
	f := newAuthFixture(t)
	_, token := f.createUser(t, "alice", domain.RoleAdmin)

	f.repo.mutate("alice", func(u *domain.User) { u.IsActive = false })

	if _, err := f.authn.Authenticate(context.Background(), token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for inactive user, got %v", err)
	}
}

func TestAuthenticator_DeletedUser(t *testing.T) {
	f := newAuthFixture(t)
	_, token := f.createUser(t, "alice", domain.RoleAdmin)

	f.repo.remove("alice")

	if _, err := f.authn.Authenticate(context.Background(), token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for deleted user, got %v", err)
	}
}

func TestAuthenticator_RevokedToken(t *testing.T) {
	f := newAuthFixture(t)
	_, token := f.createUser(t, "alice", domain.RoleAdmin)
	claims, _ := f.tokens.Verify(token)
	f.revoked.ids[claims.TokenID] = time.Hour

	if _, err := f.authn.Authenticate(context.Background(), token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for revoked token, got %v", err)
	}
}

func TestAuthenticator_BackendFailuresAreNotUnauthenticated(t *testing.T) {
	t.Run("revocation store", func(t *testing.T) {
		f := newAuthFixture(t)
		_, token := f.createUser(t, "alice", domain.RoleAdmin)
		f.revoked.err = errBackend

		_, err := f.authn.Authenticate(context.Background(), token)
		if !errors.Is(err, errBackend) || errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("expected backend error to propagate as internal, got %v", err)
		}
	})

	t.Run("user repository", func(t *testing.T) {
		f := newAuthFixture(t)
		_, token := f.createUser(t, "alice", domain.RoleAdmin)
		f.repo.findErr = errBackend

		_, err := f.authn.Authenticate(context.Background(), token)
		if !errors.Is(err, errBackend) || errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("expected backend error to propagate as internal, got %v", err)
		}
	})
}

func TestAuthenticator_InvalidToken(t *testing.T) {
	f := newAuthFixture(t)
	if _, err := f.authn.Authenticate(context.Background(), "garbage"); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dsalta/compliance-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Stub user repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu      sync.Mutex
	byName  map[string]*domain.User
	nextID  int
	findErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byName: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	c := cloneUser(user)
	r.nextID++
	c.ID = "user-" + strconv.Itoa(r.nextID)
	r.byName[c.Username] = c
	return cloneUser(c), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byName[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byName {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byName[username]
	return ok, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.User
	for _, u := range r.byName {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

// mutate applies fn to the stored user, simulating an out-of-band change.
func (r *stubUserRepo) mutate(username string, fn func(*domain.User)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.byName[username])
}

func (r *stubUserRepo) remove(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byName, username)
}

// ---------------------------------------------------------------------------
// Stub revocation store
// ---------------------------------------------------------------------------

type stubRevocations struct {
	ids map[string]time.Duration
	err error
}

func newStubRevocations() *stubRevocations {
	return &stubRevocations{ids: make(map[string]time.Duration)}
}

func (s *stubRevocations) Revoke(_ context.Context, id string, ttl time.Duration) error {
	if s.err != nil {
		return s.err
	}
	s.ids[id] = ttl
	return nil
}

func (s *stubRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.ids[id]
	return ok, nil
}

var errBackend = errors.New("backend down")

const testSecret = "test-secret"

func newTestStore(repo *stubUserRepo) *CredentialStore {
	store, err := NewCredentialStore(repo, bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return store
}

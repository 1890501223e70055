package domain

import (
	"context"
	"slices"
)

// Principal is the authenticated identity attached to one request. It is never
// persisted.
type Principal struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// HasAnyRole reports whether the principal's role is in roles.
func (p Principal) HasAnyRole(roles ...Role) bool {
	return slices.Contains(roles, p.Role)
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal stored by WithPrincipal.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

package domain

import "fmt"

// Role is the authorization level of a user. Only RoleAdmin and RoleStandard
// are valid; use ParseRole for any value that crosses a trust boundary.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStandard Role = "standard"
)

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStandard
}

// ParseRole converts untrusted text (token claims, stored documents) into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

package service

import "github.com/dsalta/compliance-api/internal/core/domain"

// Authorize returns domain.ErrForbidden unless p holds one of required.
func Authorize(p domain.Principal, required ...domain.Role) error {
	if !p.HasAnyRole(required...) {
		return domain.ErrForbidden
	}
	return nil
}

package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/dsalta/compliance-api/internal/api/metrics"
	"github.com/dsalta/compliance-api/internal/core/domain"
	"github.com/dsalta/compliance-api/internal/core/service"
)

// RBAC allows the request through only when the authenticated principal holds
// one of allowedRoles. It must run after Auth.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := domain.PrincipalFromContext(c.Request().Context())
			if !ok {
				return domain.ErrUnauthenticated
			}
			if err := service.Authorize(principal, allowedRoles...); err != nil {
				metrics.AuthFailuresTotal.WithLabelValues("forbidden").Inc()
				return err
			}
			return next(c)
		}
	}
}

package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dsalta/compliance-api/internal/api/metrics"
	"github.com/dsalta/compliance-api/internal/core/domain"
	"github.com/dsalta/compliance-api/internal/core/ports"
)

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header.
func BearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// Auth resolves the bearer token into a principal and stores it in the
// request context. Any failure stops the chain before the handler runs.
func Auth(authn ports.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := BearerToken(c.Request())
			if !ok {
				metrics.AuthFailuresTotal.WithLabelValues("missing_token").Inc()
				return fmt.Errorf("missing or malformed authorization header: %w", domain.ErrUnauthenticated)
			}

			principal, err := authn.Authenticate(c.Request().Context(), raw)
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues("invalid_token").Inc()
				return err
			}

			ctx := domain.WithPrincipal(c.Request().Context(), principal)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/dsalta/compliance-api/internal/api/handler"
	"github.com/dsalta/compliance-api/internal/core/domain"
)

// Error codes carried in the error envelope.
const (
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeForbidden       = "FORBIDDEN"
	CodeTaskNotFound    = "TASK_NOT_FOUND"
	CodeUserNotFound    = "USER_NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeValidation      = "VALIDATION_ERROR"
	CodeHTTP            = "HTTP_ERROR"
	CodeInternal        = "INTERNAL_ERROR"
)

type resolvedError struct {
	status  int
	code    string
	message string
	details any
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status and error code.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the standard response envelope with success=false.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		r := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(r.status)
			return
		}
		_ = handler.Fail(c, r.status, r.code, r.message, r.details)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) resolvedError {
	var ve *handler.ValidationError
	if errors.As(err, &ve) {
		return resolvedError{http.StatusBadRequest, CodeValidation, ve.Message, ve.Details}
	}

	var nf *domain.TaskNotFoundError
	if errors.As(err, &nf) {
		return resolvedError{http.StatusNotFound, CodeTaskNotFound, nf.Error(), nil}
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return resolvedError{http.StatusUnauthorized, CodeUnauthenticated, "Invalid credentials", nil}
	case errors.Is(err, domain.ErrUnauthenticated):
		return resolvedError{http.StatusUnauthorized, CodeUnauthenticated, "Unauthorized", nil}
	case errors.Is(err, domain.ErrForbidden):
		return resolvedError{http.StatusForbidden, CodeForbidden, "Forbidden resource", nil}
	case errors.Is(err, domain.ErrTaskNotFound):
		return resolvedError{http.StatusNotFound, CodeTaskNotFound, "Task not found", nil}
	case errors.Is(err, domain.ErrUserNotFound):
		return resolvedError{http.StatusNotFound, CodeUserNotFound, "User not found", nil}
	case errors.Is(err, domain.ErrUserExists):
		return resolvedError{http.StatusConflict, CodeConflict, "User already exists", nil}
	}

	// Echo's own errors (unknown route, method not allowed, body too large...).
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code < http.StatusInternalServerError {
		return resolvedError{he.Code, CodeHTTP, fmt.Sprintf("%v", he.Message), nil}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return resolvedError{http.StatusInternalServerError, CodeInternal, "Internal server error", nil}
}

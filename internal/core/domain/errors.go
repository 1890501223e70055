package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated covers a missing, invalid or expired token and a
	// deleted or deactivated account. Callers never learn which.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidToken is returned by token verification.
	ErrInvalidToken = fmt.Errorf("invalid token: %w", ErrUnauthenticated)
	// ErrInvalidCredentials is the single login failure for unknown user,
	// wrong password and inactive account.
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", ErrUnauthenticated)

	ErrForbidden    = errors.New("access forbidden")
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
	ErrTaskNotFound = errors.New("task not found")
)

// TaskNotFoundError reports that no task exists for ID.
type TaskNotFoundError struct {
	ID string
}

func NewTaskNotFound(id string) *TaskNotFoundError {
	return &TaskNotFoundError{ID: id}
}

func (e *TaskNotFoundError) Error() string {
	return fmt.Sprintf("Task with ID %s not found", e.ID)
}

func (e *TaskNotFoundError) Is(target error) bool {
	return target == ErrTaskNotFound
}

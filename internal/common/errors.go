// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"

	"github.com/faisalkp/mahaldesk/internal/api"
)

// Common application errors.
var (
	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsRetryable determines if an error should trigger a retry. Only transient
// transport failures and backend 5xx responses qualify; an auth rejection
// must bubble to session invalidation untouched.
func IsRetryable(err error) bool {
	if errors.Is(err, api.ErrAuth) {
		return false
	}
	if errors.Is(err, api.ErrNetwork) {
		return true
	}

	var serverErr *api.ServerError
	if errors.As(err, &serverErr) {
		return serverErr.Status >= 500
	}

	return false
}

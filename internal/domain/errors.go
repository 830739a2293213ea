package domain

import "errors"

// Auth failures. The invalid-credentials message is deliberately the same
// for an unknown username and a wrong password so usernames cannot be
// enumerated through the login form.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountDeactivated = errors.New("your account has been deactivated")
	ErrNoSession          = errors.New("authentication required")
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderNotProcessed = errors.New("order could not be processed")
)

// ValidationError reports malformed or missing input. The caller re-shows
// the form with the message; nothing is persisted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ConflictError reports a uniqueness violation (username or email already
// registered).
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

package auth

import (
	"errors"
	"strings"
)

// Sentinel errors returned by the auth operations. The messages are
// user-facing: they end up verbatim in the session error slot.
var (
	// ErrInvalidCredentials is returned by Login when no registered user
	// matches the supplied email/password pair.
	ErrInvalidCredentials = errors.New("Invalid email or password")

	// ErrDuplicateUser is returned by Signup when the normalized email is
	// already registered.
	ErrDuplicateUser = errors.New("User with this email already exists")
)

// ValidationError aggregates the messages of all failing input fields,
// joined with ", " in field order.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ", ")
}

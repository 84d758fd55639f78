package session

import (
	"errors"
	"strings"
)

// Errors
var (
	ErrCredentialsRequired = errors.New("email and password are required")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailExists         = errors.New("user already exists with this email")
	ErrNoCurrentUser       = errors.New("no current user")
	ErrNotReady            = errors.New("session service not ready")
)

// ValidationError reports the first signup field that failed validation.
// Message is shown to the user as is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// InternalError wraps a storage or decoding failure behind an operation name
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Message converts an error returned by the service into the sentence shown
// to the user
func Message(err error) string {
	if err == nil {
		return ""
	}

	var validationErr *ValidationError
	var internalErr *InternalError

	switch {
	case errors.As(err, &validationErr):
		return validationErr.Message
	case errors.Is(err, ErrCredentialsRequired):
		return "Email and password are required"
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, ErrEmailExists):
		return "User already exists with this email"
	case errors.Is(err, ErrNoCurrentUser):
		return "No current user"
	case errors.Is(err, ErrNotReady):
		return "Authentication is still starting. Please try again."
	case errors.As(err, &internalErr):
		return capitalize(internalErr.Op) + " failed. Please try again."
	default:
		return "Something went wrong. Please try again."
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

package application

import (
	"errors"
	"strings"
)

// Service-level error kinds. Handlers translate these to HTTP statuses:
// validation and duplicates become 400, not-found becomes 400 or 404
// depending on the route, bad credentials become 401.
var (
	ErrCarNotFound        = errors.New("car not found")
	ErrCarModelExists     = errors.New("car model already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already registered")
	ErrNameExists         = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError carries the ordered, batch-collected field messages
// produced by input validation.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

package core

// Error codes for domain errors.
const (
	ErrCodeValidation = "validation_error"
	ErrCodeAuth       = "auth_error"
	ErrCodeServer     = "server_error"
)

// Error wraps a code and human-readable message for a single connection.
// It never propagates past the connection it was raised on.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NewValidationError reports malformed or empty client input.
func NewValidationError(msg string) *Error {
	return &Error{Code: ErrCodeValidation, Message: msg}
}

// NewAuthError reports a token or session failure.
func NewAuthError(msg string) *Error {
	return &Error{Code: ErrCodeAuth, Message: msg}
}

// NewServerError reports an internal failure in a degraded operation.
func NewServerError(msg string) *Error {
	return &Error{Code: ErrCodeServer, Message: msg}
}

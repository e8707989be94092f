package service

import "errors"

var (
	ErrDuplicateKey       = errors.New("duplicate_key")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidToken       = errors.New("invalid_token")
	ErrFederation         = errors.New("federation_failed")
	ErrNotFound           = errors.New("not_found")
)

// ValidationError reports bad caller input. The HTTP layer maps it to 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// federationError joins ErrFederation with the provider detail so callers
// can match either.
type federationError struct {
	cause error
}

func (e *federationError) Error() string   { return e.cause.Error() }
func (e *federationError) Unwrap() []error { return []error{ErrFederation, e.cause} }

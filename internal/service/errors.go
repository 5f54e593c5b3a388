package service

import "errors"

// ErrNotFound is returned when a transaction or goal id does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError reports user input that was rejected. State is never
// modified when it is returned.
type ValidationError struct {
	// Field names the offending form field.
	Field string
	// Message is shown to the user as is.
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is a *ValidationError and returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

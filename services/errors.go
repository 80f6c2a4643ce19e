package services

import (
	"errors"
)

var ErrNotFound = errors.New("record not found")

// ValidationError is returned when caller input is rejected before any
// write happens.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Broadcaster pushes live events to the admin board.
type Broadcaster interface {
	Broadcast(event string, data interface{})
}

func broadcast(b Broadcaster, event string, data interface{}) {
	if b != nil {
		b.Broadcast(event, data)
	}
}

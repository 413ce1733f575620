package service

import "errors"

// ValidationError carries a user-facing message for input that failed
// signup or reset validation. The message is surfaced verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationErr(msg string) error { return &ValidationError{Message: msg} }

var (
	// ErrEmailNotRegistered is returned when login is attempted with an
	// unknown address. The login contract deliberately distinguishes
	// this from a wrong password; the minor enumeration risk is an
	// accepted trade for clearer feedback.
	ErrEmailNotRegistered = errors.New("Email not registered")

	// ErrInvalidPassword is returned when the password does not match
	// the stored hash.
	ErrInvalidPassword = errors.New("Invalid password")
)

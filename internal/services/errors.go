package services

import "errors"

var (
	ErrCNICRequired       = errors.New("cnic is required")
	ErrInvalidLocation    = errors.New("invalid location")
	ErrDeleteNotConfirmed = errors.New("delete not confirmed")
	ErrEmptySheet         = errors.New("no rows in the sheet")
)

// ValidationError marks input that is rejected before any store call.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func IsValidationError(err error) bool {
	var validation *ValidationError
	return errors.As(err, &validation)
}

package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that a transaction or expected payment already has an
// active reconciliation match, so the attempted assignment lost the race.
var ErrConflict = errors.New("reconciliation conflict")

// ErrPrecisionLoss indicates that parsing an amount would lose sub-cent precision.
var ErrPrecisionLoss = errors.New("amount precision loss")

// ErrParse indicates a structurally invalid statement file (bad header/schema).
// Individual malformed records are skipped and reported, not raised as ErrParse.
var ErrParse = errors.New("statement parse error")

// AppError carries an HTTP-ish status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

package journal

import (
	"errors"
	"fmt"
)

var (
	ErrFolderNotFound  = errors.New("folder not found")
	ErrFolderExists    = errors.New("folder with this category already exists")
	ErrJournalNotFound = errors.New("journal not found")
	ErrValidation      = errors.New("validation failed")
)

// ValidationError reports a rejected field. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

package models

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid verification token")
	ErrOrderNotFound      = errors.New("order not found")
	ErrAlreadyFulfilled   = errors.New("order already picked up")
	ErrFetchFailure       = errors.New("could not load baseline catalog")

	ErrNotFound          = errors.New("not found")
	ErrItemUnavailable   = errors.New("menu item is not available")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInStock           = errors.New("product is in stock")
	ErrScannerPaused     = errors.New("scanner is paused")
	ErrUnauthenticated   = errors.New("not logged in")
)

// ValidationError names the offending signup field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid builds a *ValidationError
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

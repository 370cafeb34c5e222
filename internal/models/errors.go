package models

import (
	"errors"
	"fmt"
)

// Common errors used throughout the application
var (
	ErrAuthExpired = errors.New("authentication expired")
	// ErrNoSession wraps ErrAuthExpired: a missing refresh token is a
	// terminal auth failure, so callers can match either sentinel.
	ErrNoSession       = fmt.Errorf("no refresh token available: %w", ErrAuthExpired)
	ErrInvalidInput    = errors.New("invalid input")
	ErrLineNotFound    = errors.New("cart line not found")
	ErrProductNotFound = errors.New("product not found")
	ErrEventNotFound   = errors.New("event not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrDuplicateEntry  = errors.New("duplicate entry")
	ErrEmptyCart       = errors.New("cart is empty")
)

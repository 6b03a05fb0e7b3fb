package model

import "errors"

// Validation errors returned by the Validate methods.
var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrMissingField    = errors.New("missing required field")
	ErrNegativeAmount  = errors.New("amount cannot be negative")
	ErrNonPositive     = errors.New("value must be greater than zero")
	ErrInvalidCategory = errors.New("invalid expense category")
	ErrInvalidYear     = errors.New("invalid year")
)

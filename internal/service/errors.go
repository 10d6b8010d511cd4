package service

import "errors"

var (
	// ErrValidation marks malformed requests. It is joined with the
	// underlying cause so both can be matched with errors.Is.
	ErrValidation = errors.New("validation failed")

	ErrInsufficientStock = errors.New("insufficient stock")
)

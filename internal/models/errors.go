package models

import "errors"

// User validation errors.
var (
	ErrEmptyName    = errors.New("name cannot be empty")
	ErrEmptyAddress = errors.New("address cannot be empty")
	ErrInvalidEmail = errors.New("invalid email format")
)

// Order rule violations.
var (
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	ErrProductNotFound = errors.New("product not found in order")
	ErrInvalidStatus   = errors.New("invalid status transition")
	ErrEmptyOrder      = errors.New("order has no items")
	ErrUnknownStatus   = errors.New("unknown order status")
)

var (
	ErrNegativePrice = errors.New("price cannot be negative")
	ErrStockOverflow = errors.New("stock quantity overflow")
)

// IsUserError reports whether err is one of the user validation errors.
func IsUserError(err error) bool {
	return errors.Is(err, ErrEmptyName) ||
		errors.Is(err, ErrEmptyAddress) ||
		errors.Is(err, ErrInvalidEmail)
}

// IsOrderError reports whether err is one of the order rule violations.
func IsOrderError(err error) bool {
	return errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrEmptyOrder)
}

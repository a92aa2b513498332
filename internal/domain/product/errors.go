package product

import "errors"

var (
	ErrNotFound          = errors.New("product not found")
	ErrInactive          = errors.New("product is not active")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidPrice      = errors.New("price must be greater than zero")
	ErrInvalidStock      = errors.New("stock quantity must not be negative")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrMissingField      = errors.New("required field is missing")
)

package cart

import "errors"

var (
	ErrInvalidQuantity = errors.New("quantity must not be negative")
	ErrMissingProduct  = errors.New("product id is required")
	ErrEmpty           = errors.New("cart is empty")
	ErrLineNotFound    = errors.New("cart line not found")
)

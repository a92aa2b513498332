package order

import "errors"

var (
	ErrNotFound              = errors.New("order not found")
	ErrNoLines               = errors.New("order must have at least one line")
	ErrMissingField          = errors.New("required field is missing")
	ErrInvalidPaymentMethod  = errors.New("payment method must be COD or UPI")
	ErrMissingPaymentDetails = errors.New("upi payment requires upi id and transaction id")

	ErrInvalidTransition = errors.New("invalid status transition")
	ErrAlreadyFinalized  = errors.New("order is already in a terminal state")
	ErrVersionConflict   = errors.New("order was modified concurrently")

	ErrNotOwner       = errors.New("order belongs to a different customer")
	ErrNotDelivered   = errors.New("order has not been delivered")
	ErrFeedbackExists = errors.New("feedback already submitted for this order")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
)

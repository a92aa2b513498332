package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"order_engine/internal/application/checkout"
	cartdomain "order_engine/internal/domain/cart"
	"order_engine/internal/domain/order"
	"order_engine/internal/domain/product"
)

// writeError maps engine errors onto HTTP statuses: validation → 400,
// missing things → 404, ownership → 403, consistency conflicts → 409.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, cartdomain.ErrInvalidQuantity),
		errors.Is(err, cartdomain.ErrMissingProduct),
		errors.Is(err, cartdomain.ErrEmpty),
		errors.Is(err, product.ErrInvalidQuantity),
		errors.Is(err, product.ErrInvalidPrice),
		errors.Is(err, product.ErrInvalidStock),
		errors.Is(err, product.ErrMissingField),
		errors.Is(err, order.ErrMissingField),
		errors.Is(err, order.ErrNoLines),
		errors.Is(err, order.ErrInvalidPaymentMethod),
		errors.Is(err, order.ErrMissingPaymentDetails),
		errors.Is(err, order.ErrInvalidRating):
		status = http.StatusBadRequest

	case errors.Is(err, product.ErrNotFound),
		errors.Is(err, order.ErrNotFound),
		errors.Is(err, cartdomain.ErrLineNotFound):
		status = http.StatusNotFound

	case errors.Is(err, order.ErrNotOwner):
		status = http.StatusForbidden

	case errors.Is(err, product.ErrInsufficientStock),
		errors.Is(err, product.ErrInactive),
		errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrAlreadyFinalized),
		errors.Is(err, order.ErrVersionConflict),
		errors.Is(err, order.ErrNotDelivered),
		errors.Is(err, order.ErrFeedbackExists):
		status = http.StatusConflict
	}

	body := gin.H{"error": err.Error()}
	var creation *checkout.CreationError
	if errors.As(err, &creation) {
		body["product_id"] = creation.ProductID
	}
	c.JSON(status, body)
}

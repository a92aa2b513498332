package feedback

import (
	"context"
	"fmt"

	"order_engine/internal/domain/order"
	"order_engine/internal/domain/repository"
	"order_engine/pkg/logger"
)

// Service gates feedback submission: only the order's owner, only
// after delivery, only once. There is no update or delete; feedback is
// append-only from the customer's perspective.
type Service struct {
	orders repository.OrderRepository
	log    logger.Logger
}

func NewService(orders repository.OrderRepository, log logger.Logger) *Service {
	return &Service{orders: orders, log: log}
}

func (s *Service) Submit(ctx context.Context, orderID, customerID string, rating int, comment string) (*order.Feedback, error) {
	if rating < 1 || rating > 5 {
		return nil, order.ErrInvalidRating
	}

	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.CustomerID != customerID {
		return nil, order.ErrNotOwner
	}
	if o.Status != order.StatusDelivered {
		return nil, order.ErrNotDelivered
	}
	if o.Feedback != nil {
		return nil, order.ErrFeedbackExists
	}

	fb, err := order.NewFeedback(rating, comment)
	if err != nil {
		return nil, err
	}

	// The repository attach is conditional on no feedback existing, so
	// a concurrent double-submit loses here even after the check above
	// passed on a stale read.
	if err := s.orders.AttachFeedback(ctx, orderID, fb); err != nil {
		return nil, fmt.Errorf("attach feedback to order %s: %w", orderID, err)
	}

	s.log.Info("feedback submitted",
		logger.String("order_id", orderID),
		logger.String("customer_id", customerID),
		logger.Int("rating", rating),
	)
	return fb, nil
}

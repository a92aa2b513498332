package notify

import (
	"context"

	"order_engine/pkg/contracts"
	"order_engine/pkg/logger"
)

// Service is the engine-side stand-in for the email/SMS collaborator:
// it acknowledges notification events to the log. Events arrive
// at-least-once, so a duplicate event id may appear twice.
type Service struct {
	log logger.Logger
}

func NewService(log logger.Logger) *Service {
	return &Service{log: log}
}

func (s *Service) HandleEvent(ctx context.Context, ev contracts.Event) error {
	switch ev.Type {
	case contracts.EventOrderCreated:
		s.log.Info("notify customer: order placed",
			logger.String("event_id", ev.EventID),
			logger.String("order_id", ev.OrderID),
			logger.String("customer_id", ev.CustomerID),
			logger.Int64("total_cents", ev.TotalCents),
		)
	case contracts.EventOrderStatusChanged:
		s.log.Info("notify customer: order status changed",
			logger.String("event_id", ev.EventID),
			logger.String("order_id", ev.OrderID),
			logger.String("status", ev.Status),
		)
	case contracts.EventFeedbackEligible:
		s.log.Info("notify customer: feedback now open",
			logger.String("event_id", ev.EventID),
			logger.String("order_id", ev.OrderID),
		)
	default:
		s.log.Warn("unknown event type",
			logger.String("event_id", ev.EventID),
			logger.String("type", ev.Type),
		)
	}
	return nil
}

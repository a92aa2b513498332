package lifecycle

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"order_engine/internal/application/stock"
	"order_engine/internal/domain/order"
	"order_engine/internal/domain/repository"
	"order_engine/pkg/contracts"
	"order_engine/pkg/logger"
	"order_engine/pkg/metrics"
)

type EventOutbox interface {
	Insert(ctx context.Context, eventID, topic, key string, payload []byte) error
}

// Service is the state machine over order status. Vendors advance
// orders forward one step at a time; customers may cancel while the
// order is still pending. Cancellation is the only path that returns
// stock to inventory.
type Service struct {
	orders  repository.OrderRepository
	ledger  *stock.Ledger
	tx      repository.TransactionManager
	outbox  EventOutbox
	topic   string
	metrics *metrics.EngineMetrics
	log     logger.Logger
}

func NewService(
	orders repository.OrderRepository,
	ledger *stock.Ledger,
	tx repository.TransactionManager,
	outbox EventOutbox,
	topic string,
	m *metrics.EngineMetrics,
	log logger.Logger,
) *Service {
	return &Service{orders: orders, ledger: ledger, tx: tx, outbox: outbox, topic: topic, metrics: m, log: log}
}

// Advance moves an order one step along pending → processing →
// shipped → delivered. Skipping a step, moving backward, or touching a
// terminal order is rejected. The status flip is guarded by the order
// version, so a request that raced a concurrent transition fails with
// order.ErrVersionConflict instead of silently applying a stale change.
func (s *Service) Advance(ctx context.Context, orderID string, target order.Status) error {
	if !target.Valid() || target == order.StatusCancelled {
		return order.ErrInvalidTransition
	}

	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if o.Status.Terminal() {
		return order.ErrAlreadyFinalized
	}
	if !order.CanTransition(o.Status, target) {
		return order.ErrInvalidTransition
	}

	expected := o.Version
	o.ApplyStatus(target)
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.orders.UpdateStatus(ctx, o, expected); err != nil {
			return fmt.Errorf("update order %s status: %w", orderID, err)
		}
		if err := s.recordStatusChanged(ctx, o); err != nil {
			return err
		}
		if target == order.StatusDelivered {
			return s.recordEvent(ctx, o, contracts.EventFeedbackEligible)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.Transitioned(string(target))
	s.log.Info("order status changed",
		logger.String("order_id", o.ID),
		logger.String("status", string(target)),
	)
	return nil
}

// Cancel cancels a pending order on behalf of its owner. Stock for
// every line is released before the order is marked cancelled; if the
// status flip then fails, the released quantities are reserved back so
// inventory never drifts.
func (s *Service) Cancel(ctx context.Context, orderID, customerID string) error {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if o.CustomerID != customerID {
		return order.ErrNotOwner
	}
	if o.Status.Terminal() {
		return order.ErrAlreadyFinalized
	}
	if o.Status != order.StatusPending {
		return order.ErrInvalidTransition
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		released := make([]order.Line, 0, len(o.Lines))
		for _, ln := range o.Lines {
			if err := s.ledger.Release(ctx, ln.ProductID, ln.Quantity); err != nil {
				s.reReserve(ctx, released)
				return fmt.Errorf("release stock for order %s: %w", orderID, err)
			}
			released = append(released, ln)
		}

		expected := o.Version
		o.ApplyStatus(order.StatusCancelled)
		if err := s.orders.UpdateStatus(ctx, o, expected); err != nil {
			s.reReserve(ctx, released)
			return fmt.Errorf("mark order %s cancelled: %w", orderID, err)
		}
		return s.recordStatusChanged(ctx, o)
	})
	if err != nil {
		return err
	}

	s.metrics.Transitioned(string(order.StatusCancelled))
	s.log.Info("order cancelled",
		logger.String("order_id", o.ID),
		logger.String("customer_id", customerID),
	)
	return nil
}

// reReserve takes back stock that was released for a cancellation that
// did not complete. Best effort: a concurrent sale may have consumed
// the released units, which is logged for the operator.
func (s *Service) reReserve(ctx context.Context, released []order.Line) {
	for _, ln := range released {
		if _, err := s.ledger.Reserve(ctx, ln.ProductID, ln.Quantity); err != nil {
			s.log.Error("re-reserve after failed cancellation",
				logger.Error(err),
				logger.String("product_id", ln.ProductID),
				logger.Int("quantity", ln.Quantity),
			)
		}
	}
}

func (s *Service) recordStatusChanged(ctx context.Context, o *order.Order) error {
	return s.recordEvent(ctx, o, contracts.EventOrderStatusChanged)
}

func (s *Service) recordEvent(ctx context.Context, o *order.Order, eventType string) error {
	ev := contracts.Event{
		EventID:    uuid.NewString(),
		Type:       eventType,
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		Status:     string(o.Status),
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", eventType, err)
	}
	if err := s.outbox.Insert(ctx, ev.EventID, s.topic, o.ID, payload); err != nil {
		return fmt.Errorf("record %s event: %w", eventType, err)
	}
	return nil
}

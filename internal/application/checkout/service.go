package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"order_engine/internal/application/stock"
	cartdomain "order_engine/internal/domain/cart"
	"order_engine/internal/domain/order"
	"order_engine/internal/domain/repository"
	"order_engine/pkg/contracts"
	"order_engine/pkg/logger"
	"order_engine/pkg/metrics"
)

// EventOutbox records notification events in the same store as the
// order so the relay can deliver them at-least-once.
type EventOutbox interface {
	Insert(ctx context.Context, eventID, topic, key string, payload []byte) error
}

// Service is the only path by which a cart becomes an order and the
// only path by which stock decreases. Reservation across the lines of
// one order is all-or-nothing: any failure releases everything already
// reserved before the error is returned, and on a transactional store
// the reservations, order row and outbox record commit together.
type Service struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	orders   repository.OrderRepository
	ledger   *stock.Ledger
	tx       repository.TransactionManager
	outbox   EventOutbox
	topic    string
	metrics  *metrics.EngineMetrics
	log      logger.Logger
}

type PlaceOrderCommand struct {
	ShippingAddress order.ShippingAddress `json:"shipping_address"`
	Contact         order.Contact         `json:"contact"`
	PaymentMethod   order.PaymentMethod   `json:"payment_method"`
	Payment         *order.PaymentDetails `json:"payment,omitempty"`
}

// CreationError reports which product sank the checkout and why, so
// the storefront can show the customer what to fix.
type CreationError struct {
	ProductID string
	Reason    error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("order creation failed for product %s: %v", e.ProductID, e.Reason)
}

func (e *CreationError) Unwrap() error {
	return e.Reason
}

func NewService(
	carts repository.CartRepository,
	products repository.ProductRepository,
	orders repository.OrderRepository,
	ledger *stock.Ledger,
	tx repository.TransactionManager,
	outbox EventOutbox,
	topic string,
	m *metrics.EngineMetrics,
	log logger.Logger,
) *Service {
	return &Service{
		carts:    carts,
		products: products,
		orders:   orders,
		ledger:   ledger,
		tx:       tx,
		outbox:   outbox,
		topic:    topic,
		metrics:  m,
		log:      log,
	}
}

// PlaceOrder converts the customer's cart into a durable order.
//
// Unit prices are re-read here, not taken from whatever the customer
// saw while browsing: price is locked at order time. Reservations are
// made line by line and fully released if any line fails, so stock is
// never left decremented without an order existing. The whole sequence
// runs inside one storage transaction: on postgres a crash between the
// reservation and the order insert rolls the decrement back, and the
// order.created record commits with the order or not at all.
func (s *Service) PlaceOrder(ctx context.Context, customerID string, cmd PlaceOrderCommand) (*order.Order, error) {
	if customerID == "" {
		return nil, order.ErrMissingField
	}
	if err := order.ValidatePayment(cmd.PaymentMethod, cmd.Payment); err != nil {
		return nil, err
	}

	cartLines, err := s.carts.FindLines(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(cartLines) == 0 {
		return nil, cartdomain.ErrEmpty
	}

	var o *order.Order
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		lines := make([]order.Line, 0, len(cartLines))
		reserved := make([]stock.Reservation, 0, len(cartLines))
		for _, cl := range cartLines {
			p, err := s.products.FindByID(ctx, cl.ProductID)
			if err != nil {
				s.rollback(ctx, reserved)
				return &CreationError{ProductID: cl.ProductID, Reason: err}
			}

			res, err := s.ledger.Reserve(ctx, cl.ProductID, cl.Quantity)
			if err != nil {
				s.rollback(ctx, reserved)
				return &CreationError{ProductID: cl.ProductID, Reason: err}
			}
			reserved = append(reserved, res)

			lines = append(lines, order.Line{
				ProductID:      p.ID,
				Name:           p.Name,
				Quantity:       cl.Quantity,
				UnitPriceCents: p.PriceCents,
			})
		}

		o, err = order.New(uuid.NewString(), customerID, lines, cmd.ShippingAddress, cmd.Contact, cmd.PaymentMethod, cmd.Payment)
		if err != nil {
			s.rollback(ctx, reserved)
			return err
		}

		// The event goes in before the order row: an order must never
		// outlive a failed event insert, even without rollback support.
		if err := s.recordCreated(ctx, o); err != nil {
			s.rollback(ctx, reserved)
			return err
		}
		if err := s.orders.Save(ctx, o); err != nil {
			s.rollback(ctx, reserved)
			return fmt.Errorf("save order: %w", err)
		}

		if err := s.carts.Clear(ctx, customerID); err != nil {
			// The order and its event are in place and stock is
			// correct; a stale cart is the lesser evil. Logs only.
			s.log.Error("clear cart after checkout", logger.Error(err),
				logger.String("customer_id", customerID),
				logger.String("order_id", o.ID),
			)
		}
		return nil
	})
	if err != nil {
		s.metrics.CheckoutFailed()
		return nil, err
	}

	s.metrics.OrderCreated()
	s.log.Info("order created",
		logger.String("order_id", o.ID),
		logger.String("customer_id", customerID),
		logger.Int64("total_cents", o.TotalCents),
		logger.Int("lines", len(o.Lines)),
	)
	return o, nil
}

// rollback is the compensating release for reservations made before a
// later step failed. It must leave stock exactly as it was before the
// checkout attempt.
func (s *Service) rollback(ctx context.Context, reserved []stock.Reservation) {
	for _, res := range reserved {
		if err := s.ledger.Release(ctx, res.ProductID, res.Quantity); err != nil {
			s.log.Error("rollback release failed",
				logger.Error(err),
				logger.String("product_id", res.ProductID),
				logger.Int("quantity", res.Quantity),
			)
		}
	}
}

func (s *Service) recordCreated(ctx context.Context, o *order.Order) error {
	ev := contracts.Event{
		EventID:    uuid.NewString(),
		Type:       contracts.EventOrderCreated,
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		Status:     string(o.Status),
		TotalCents: o.TotalCents,
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode order.created event: %w", err)
	}
	if err := s.outbox.Insert(ctx, ev.EventID, s.topic, o.ID, payload); err != nil {
		return fmt.Errorf("record order.created event: %w", err)
	}
	return nil
}

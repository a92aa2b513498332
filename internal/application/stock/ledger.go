package stock

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "order_engine/internal/domain/product"
	"order_engine/internal/domain/repository"
	"order_engine/pkg/logger"
	"order_engine/pkg/metrics"
)

// Ledger is the single source of truth for stock counts and the only
// component allowed to change them. The actual check-and-decrement is
// delegated to the product repository, which must perform it as one
// atomic step (conditional UPDATE in postgres, mutex in memory).
type Ledger struct {
	products repository.ProductRepository
	metrics  *metrics.EngineMetrics
	log      logger.Logger
}

// Reservation records a stock decrement so the caller can undo it with
// Release if a later step fails.
type Reservation struct {
	ProductID  string
	Quantity   int
	ReservedAt time.Time
}

func NewLedger(products repository.ProductRepository, m *metrics.EngineMetrics, log logger.Logger) *Ledger {
	return &Ledger{products: products, metrics: m, log: log}
}

// Reserve atomically checks that the product is active and has at
// least quantity units, and decrements in the same step. Two
// concurrent reservations can never both succeed when only one has
// sufficient stock.
func (l *Ledger) Reserve(ctx context.Context, productID string, quantity int) (Reservation, error) {
	if quantity <= 0 {
		return Reservation{}, domain.ErrInvalidQuantity
	}

	if err := l.products.DecrementStock(ctx, productID, quantity); err != nil {
		l.metrics.ReservationFailed(failureReason(err))
		return Reservation{}, fmt.Errorf("reserve %d of product %s: %w", quantity, productID, err)
	}

	l.metrics.ReservationOK()
	l.log.Debug("stock reserved",
		logger.String("product_id", productID),
		logger.Int("quantity", quantity),
	)
	return Reservation{
		ProductID:  productID,
		Quantity:   quantity,
		ReservedAt: time.Now().UTC(),
	}, nil
}

// Release returns quantity units to the product's stock. It undoes a
// prior reservation and is never called on any other path. When the
// product row is gone the release is logged and dropped; the ledger
// entry for a deleted product is not recreated.
func (l *Ledger) Release(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}

	err := l.products.IncrementStock(ctx, productID, quantity)
	if errors.Is(err, domain.ErrNotFound) {
		l.log.Warn("release dropped, product no longer exists",
			logger.String("product_id", productID),
			logger.Int("quantity", quantity),
		)
		return nil
	}
	if err != nil {
		return fmt.Errorf("release %d of product %s: %w", quantity, productID, err)
	}

	l.metrics.Released(quantity)
	return nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInactive):
		return "inactive"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	default:
		return "storage"
	}
}

package repository

import (
	"context"
	"time"

	"order_engine/internal/domain/cart"
	"order_engine/internal/domain/order"
	"order_engine/internal/domain/product"
)

// ProductRepository persists catalog rows. Save is for the catalog
// collaborator and never changes stock on an existing row; the stock
// counter moves only through DecrementStock/IncrementStock.
type ProductRepository interface {
	FindByID(ctx context.Context, id string) (*product.Product, error)
	Save(ctx context.Context, p *product.Product) error

	// DecrementStock atomically checks stock_quantity >= quantity on an
	// active product and subtracts in the same step. Fails with
	// product.ErrNotFound, product.ErrInactive or
	// product.ErrInsufficientStock.
	DecrementStock(ctx context.Context, id string, quantity int) error

	// IncrementStock atomically adds quantity back. Fails with
	// product.ErrNotFound when the row no longer exists.
	IncrementStock(ctx context.Context, id string, quantity int) error
}

type CartRepository interface {
	FindLines(ctx context.Context, customerID string) ([]cart.Line, error)
	FindLine(ctx context.Context, customerID, productID string) (*cart.Line, error)
	UpsertLine(ctx context.Context, customerID string, line *cart.Line) error
	DeleteLine(ctx context.Context, customerID, productID string) error
	Clear(ctx context.Context, customerID string) error
}

type OrderRepository interface {
	Save(ctx context.Context, o *order.Order) error
	FindByID(ctx context.Context, id string) (*order.Order, error)
	FindByCustomer(ctx context.Context, customerID string) ([]*order.Order, error)

	// UpdateStatus persists the order's status, history and updatedAt,
	// guarded by the version the caller read. A concurrent writer makes
	// the guard miss and the call fails with order.ErrVersionConflict.
	UpdateStatus(ctx context.Context, o *order.Order, expectedVersion int64) error

	// AttachFeedback stores feedback only if the order has none yet;
	// fails with order.ErrFeedbackExists otherwise.
	AttachFeedback(ctx context.Context, orderID string, fb *order.Feedback) error
}

// OutboxRecord is one pending notification. Records are published
// at-least-once: the relay may resend a record it failed to mark sent.
type OutboxRecord struct {
	ID        int64
	EventID   string
	Topic     string
	Key       string
	Payload   []byte
	CreatedAt time.Time
	SentAt    *time.Time
}

type OutboxRepository interface {
	Insert(ctx context.Context, eventID, topic, key string, payload []byte) error
	FetchPending(ctx context.Context, limit int) ([]OutboxRecord, error)
	MarkSent(ctx context.Context, id int64) error
}

// TransactionManager runs fn inside one storage transaction. Every
// repository call made with the context fn receives joins that
// transaction; an error from fn rolls the whole transaction back. The
// in-memory implementation has no rollback and simply runs fn, so
// services still pair it with explicit compensating releases.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "order_engine/internal/domain/order"
)

// OrderRepository stores orders with line items, history and the
// optional feedback embedded as JSONB. Lines are immutable after the
// insert; status changes go through the version-guarded UpdateStatus.
type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) db(ctx context.Context) querier {
	return dbFrom(ctx, r.pool)
}

func (r *OrderRepository) Save(ctx context.Context, o *domain.Order) error {
	if o == nil {
		return fmt.Errorf("order is nil")
	}

	lines, err := json.Marshal(o.Lines)
	if err != nil {
		return fmt.Errorf("encode lines: %w", err)
	}
	addr, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return fmt.Errorf("encode shipping address: %w", err)
	}
	contact, err := json.Marshal(o.Contact)
	if err != nil {
		return fmt.Errorf("encode contact: %w", err)
	}
	history, err := json.Marshal(o.History)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	var payment []byte
	if o.Payment != nil {
		if payment, err = json.Marshal(o.Payment); err != nil {
			return fmt.Errorf("encode payment: %w", err)
		}
	}

	const query = `
		INSERT INTO orders (
			id, customer_id, lines, total_cents, shipping_address, contact,
			payment_method, payment, status, history, version, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = r.db(ctx).Exec(ctx, query,
		o.ID,
		o.CustomerID,
		lines,
		o.TotalCents,
		addr,
		contact,
		o.PaymentMethod,
		payment,
		o.Status,
		history,
		o.Version,
		o.CreatedAt,
		o.UpdatedAt,
	)
	return err
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	const query = `
		SELECT id, customer_id, lines, total_cents, shipping_address, contact,
			payment_method, payment, status, history, version, created_at, updated_at, feedback
		FROM orders
		WHERE id = $1;
	`
	o, err := scanOrder(r.db(ctx).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return o, err
}

func (r *OrderRepository) FindByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error) {
	const query = `
		SELECT id, customer_id, lines, total_cents, shipping_address, contact,
			payment_method, payment, status, history, version, created_at, updated_at, feedback
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at, id;
	`
	rows, err := r.db(ctx).Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, o *domain.Order, expectedVersion int64) error {
	if o == nil {
		return fmt.Errorf("order is nil")
	}

	history, err := json.Marshal(o.History)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	const query = `
		UPDATE orders
		SET status = $2, history = $3, updated_at = $4, version = version + 1
		WHERE id = $1 AND version = $5;
	`
	tag, err := r.db(ctx).Exec(ctx, query, o.ID, o.Status, history, o.UpdatedAt, expectedVersion)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.FindByID(ctx, o.ID); err != nil {
			return err
		}
		return domain.ErrVersionConflict
	}

	o.Version = expectedVersion + 1
	return nil
}

func (r *OrderRepository) AttachFeedback(ctx context.Context, orderID string, fb *domain.Feedback) error {
	if fb == nil {
		return fmt.Errorf("feedback is nil")
	}

	payload, err := json.Marshal(fb)
	if err != nil {
		return fmt.Errorf("encode feedback: %w", err)
	}

	const query = `
		UPDATE orders
		SET feedback = $2, updated_at = $3
		WHERE id = $1 AND feedback IS NULL;
	`
	tag, err := r.db(ctx).Exec(ctx, query, orderID, payload, fb.SubmittedAt)
	if err != nil {
		return fmt.Errorf("attach feedback: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.FindByID(ctx, orderID); err != nil {
			return err
		}
		return domain.ErrFeedbackExists
	}
	return nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o       domain.Order
		lines   []byte
		addr    []byte
		contact []byte
		payment []byte
		history []byte
		fb      []byte
	)
	err := row.Scan(
		&o.ID,
		&o.CustomerID,
		&lines,
		&o.TotalCents,
		&addr,
		&contact,
		&o.PaymentMethod,
		&payment,
		&o.Status,
		&history,
		&o.Version,
		&o.CreatedAt,
		&o.UpdatedAt,
		&fb,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(lines, &o.Lines); err != nil {
		return nil, fmt.Errorf("decode lines: %w", err)
	}
	if err := json.Unmarshal(addr, &o.ShippingAddress); err != nil {
		return nil, fmt.Errorf("decode shipping address: %w", err)
	}
	if err := json.Unmarshal(contact, &o.Contact); err != nil {
		return nil, fmt.Errorf("decode contact: %w", err)
	}
	if err := json.Unmarshal(history, &o.History); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	if len(payment) > 0 {
		o.Payment = &domain.PaymentDetails{}
		if err := json.Unmarshal(payment, o.Payment); err != nil {
			return nil, fmt.Errorf("decode payment: %w", err)
		}
	}
	if len(fb) > 0 {
		o.Feedback = &domain.Feedback{}
		if err := json.Unmarshal(fb, o.Feedback); err != nil {
			return nil, fmt.Errorf("decode feedback: %w", err)
		}
	}
	return &o, nil
}

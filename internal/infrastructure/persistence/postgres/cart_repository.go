package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "order_engine/internal/domain/cart"
)

type CartRepository struct {
	pool *pgxpool.Pool
}

func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

func (r *CartRepository) db(ctx context.Context) querier {
	return dbFrom(ctx, r.pool)
}

func (r *CartRepository) FindLines(ctx context.Context, customerID string) ([]domain.Line, error) {
	const query = `
		SELECT product_id, quantity, added_at
		FROM cart_lines
		WHERE customer_id = $1
		ORDER BY added_at, product_id;
	`
	rows, err := r.db(ctx).Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.Line
	for rows.Next() {
		var l domain.Line
		if err := rows.Scan(&l.ProductID, &l.Quantity, &l.AddedAt); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *CartRepository) FindLine(ctx context.Context, customerID, productID string) (*domain.Line, error) {
	const query = `
		SELECT product_id, quantity, added_at
		FROM cart_lines
		WHERE customer_id = $1 AND product_id = $2;
	`
	var l domain.Line
	err := r.db(ctx).QueryRow(ctx, query, customerID, productID).Scan(&l.ProductID, &l.Quantity, &l.AddedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrLineNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *CartRepository) UpsertLine(ctx context.Context, customerID string, line *domain.Line) error {
	if line == nil {
		return fmt.Errorf("cart line is nil")
	}

	const query = `
		INSERT INTO cart_lines (customer_id, product_id, quantity, added_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (customer_id, product_id) DO UPDATE
		SET quantity = EXCLUDED.quantity;
	`
	_, err := r.db(ctx).Exec(ctx, query, customerID, line.ProductID, line.Quantity, line.AddedAt)
	return err
}

func (r *CartRepository) DeleteLine(ctx context.Context, customerID, productID string) error {
	_, err := r.db(ctx).Exec(ctx,
		`DELETE FROM cart_lines WHERE customer_id = $1 AND product_id = $2;`,
		customerID, productID,
	)
	return err
}

func (r *CartRepository) Clear(ctx context.Context, customerID string) error {
	_, err := r.db(ctx).Exec(ctx, `DELETE FROM cart_lines WHERE customer_id = $1;`, customerID)
	return err
}

package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"order_engine/internal/domain/repository"
)

type OutboxRepository struct {
	pool *pgxpool.Pool
}

func NewOutboxRepository(pool *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{pool: pool}
}

func (r *OutboxRepository) db(ctx context.Context) querier {
	return dbFrom(ctx, r.pool)
}

func (r *OutboxRepository) Insert(ctx context.Context, eventID, topic, key string, payload []byte) error {
	_, err := r.db(ctx).Exec(ctx,
		`INSERT INTO outbox (event_id, topic, key, payload) VALUES ($1, $2, $3, $4);`,
		eventID, topic, key, payload,
	)
	return err
}

func (r *OutboxRepository) FetchPending(ctx context.Context, limit int) ([]repository.OutboxRecord, error) {
	rows, err := r.db(ctx).Query(ctx,
		`SELECT id, event_id, topic, key, payload, created_at, sent_at
		 FROM outbox WHERE sent_at IS NULL ORDER BY id LIMIT $1;`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.OutboxRecord
	for rows.Next() {
		var rec repository.OutboxRecord
		if err := rows.Scan(&rec.ID, &rec.EventID, &rec.Topic, &rec.Key, &rec.Payload, &rec.CreatedAt, &rec.SentAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *OutboxRepository) MarkSent(ctx context.Context, id int64) error {
	_, err := r.db(ctx).Exec(ctx, `UPDATE outbox SET sent_at = now() WHERE id = $1;`, id)
	return err
}

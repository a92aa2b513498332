package memory

import (
	"context"
	"sync"
	"time"

	"order_engine/internal/domain/repository"
)

type OutboxRepository struct {
	mu      sync.Mutex
	nextID  int64
	records []repository.OutboxRecord
}

func NewOutboxRepository() *OutboxRepository {
	return &OutboxRepository{nextID: 1}
}

func (r *OutboxRepository) Insert(ctx context.Context, eventID, topic, key string, payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, repository.OutboxRecord{
		ID:        r.nextID,
		EventID:   eventID,
		Topic:     topic,
		Key:       key,
		Payload:   append([]byte(nil), payload...),
		CreatedAt: time.Now().UTC(),
	})
	r.nextID++
	return nil
}

func (r *OutboxRepository) FetchPending(ctx context.Context, limit int) ([]repository.OutboxRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []repository.OutboxRecord
	for _, rec := range r.records {
		if rec.SentAt == nil {
			out = append(out, rec)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (r *OutboxRepository) MarkSent(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.records {
		if r.records[i].ID == id {
			now := time.Now().UTC()
			r.records[i].SentAt = &now
			return nil
		}
	}
	return nil
}

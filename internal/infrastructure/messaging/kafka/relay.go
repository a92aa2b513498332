package kafka

import (
	"context"
	"encoding/json"
	"time"

	"order_engine/internal/config"
	"order_engine/internal/domain/repository"
	"order_engine/internal/infrastructure/encoding/avro"
	"order_engine/pkg/contracts"
	"order_engine/pkg/logger"
)

// Publisher is what the relay needs from the producer.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload []byte) error
}

// Relay drains the outbox and publishes pending records. A record is
// marked sent only after the broker acked it, so delivery is
// at-least-once: a crash between publish and mark resends the record.
type Relay struct {
	outbox    repository.OutboxRepository
	publisher Publisher
	codec     *avro.Codec
	batch     int
	sleep     time.Duration
	log       logger.Logger
}

func NewRelay(outbox repository.OutboxRepository, publisher Publisher, codec *avro.Codec, cfg config.KafkaConfig, log logger.Logger) *Relay {
	batch := cfg.RelayBatch
	if batch <= 0 {
		batch = 100
	}
	sleep := time.Duration(cfg.RelaySleepMS) * time.Millisecond
	if sleep <= 0 {
		sleep = time.Second
	}
	return &Relay{
		outbox:    outbox,
		publisher: publisher,
		codec:     codec,
		batch:     batch,
		sleep:     sleep,
		log:       log,
	}
}

// Start runs until the context is cancelled.
func (r *Relay) Start(ctx context.Context) error {
	ticker := time.NewTicker(r.sleep)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.Drain(ctx); err != nil {
				r.log.Error("outbox drain failed", logger.Error(err))
			}
		}
	}
}

// Drain publishes one batch of pending records.
func (r *Relay) Drain(ctx context.Context) error {
	pending, err := r.outbox.FetchPending(ctx, r.batch)
	if err != nil {
		return err
	}

	for _, rec := range pending {
		var ev contracts.Event
		if err := json.Unmarshal(rec.Payload, &ev); err != nil {
			// A poison record would block the queue forever; drop it.
			r.log.Error("outbox record is not a valid event, skipping",
				logger.Error(err),
				logger.Int64("outbox_id", rec.ID),
			)
			if err := r.outbox.MarkSent(ctx, rec.ID); err != nil {
				return err
			}
			continue
		}

		payload, err := r.codec.Encode(ev)
		if err != nil {
			return err
		}
		if err := r.publisher.Publish(ctx, rec.Topic, rec.Key, payload); err != nil {
			return err
		}
		if err := r.outbox.MarkSent(ctx, rec.ID); err != nil {
			return err
		}
		r.log.Debug("event relayed",
			logger.String("event_id", rec.EventID),
			logger.String("topic", rec.Topic),
		)
	}
	return nil
}

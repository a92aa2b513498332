package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"order_engine/internal/config"
	"order_engine/pkg/logger"
)

// EventProducer publishes notification events. Acks from all ISRs are
// required so a record marked sent in the outbox really made it.
type EventProducer struct {
	client *kgo.Client
	log    logger.Logger
}

func NewEventProducer(cfg config.KafkaConfig, log logger.Logger) (*EventProducer, error) {
	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	log.Info("kafka producer ready", logger.Any("brokers", cfg.Brokers))
	return &EventProducer{client: client, log: log}, nil
}

func (p *EventProducer) Publish(ctx context.Context, topic, key string, payload []byte) error {
	if len(payload) == 0 {
		return fmt.Errorf("payload is empty")
	}

	rec := &kgo.Record{
		Topic:     topic,
		Key:       []byte(key),
		Value:     payload,
		Timestamp: time.Now().UTC(),
	}

	results := p.client.ProduceSync(ctx, rec)
	if err := results.FirstErr(); err != nil {
		p.log.Error("publish event failed",
			logger.Error(err),
			logger.String("topic", topic),
			logger.String("key", key),
		)
		return fmt.Errorf("publish to kafka topic %s: %w", topic, err)
	}
	return nil
}

func (p *EventProducer) Close() {
	p.client.Close()
}

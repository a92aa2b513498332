package kafka

import (
	"context"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"

	"order_engine/internal/config"
	"order_engine/internal/infrastructure/encoding/avro"
	"order_engine/pkg/contracts"
)

// EventHandler receives decoded notification events. Handlers must
// tolerate duplicates; delivery is at-least-once.
type EventHandler interface {
	HandleEvent(ctx context.Context, ev contracts.Event) error
}

type EventConsumer struct {
	reader  *kafkago.Reader
	codec   *avro.Codec
	handler EventHandler
}

func NewEventConsumer(cfg config.KafkaConfig, codec *avro.Codec, handler EventHandler) *EventConsumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.ConsumerGroup,
		Topic:    cfg.EventTopic,
		MinBytes: 1e3,
		MaxBytes: 1e6,
	})

	return &EventConsumer{
		reader:  reader,
		codec:   codec,
		handler: handler,
	}
}

func (c *EventConsumer) Start(ctx context.Context) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		ev, err := c.codec.Decode(msg.Value)
		if err != nil {
			return fmt.Errorf("decode message: %w", err)
		}

		if err := c.handler.HandleEvent(ctx, ev); err != nil {
			return fmt.Errorf("handle event %s: %w", ev.EventID, err)
		}
	}
}

func (c *EventConsumer) Close() {
	_ = c.reader.Close()
}

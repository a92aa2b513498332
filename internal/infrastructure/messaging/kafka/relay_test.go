package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"order_engine/internal/config"
	"order_engine/internal/infrastructure/encoding/avro"
	"order_engine/internal/infrastructure/persistence/memory"
	"order_engine/pkg/contracts"
	"order_engine/pkg/logger"
)

// MockPublisher is a mock for the Publisher interface.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, topic, key string, payload []byte) error {
	args := m.Called(ctx, topic, key, payload)
	return args.Error(0)
}

func kafkaCfg() config.KafkaConfig {
	return config.KafkaConfig{
		Brokers:      []string{"localhost:9092"},
		EventTopic:   "order-events",
		RelayBatch:   10,
		RelaySleepMS: 10,
	}
}

func insertEvent(t *testing.T, outbox *memory.OutboxRepository, ev contracts.Event) {
	t.Helper()
	payload, err := json.Marshal(ev)
	require.NoError(t, err)
	require.NoError(t, outbox.Insert(context.Background(), ev.EventID, "order-events", ev.OrderID, payload))
}

func TestRelay_Drain_PublishesAndMarksSent(t *testing.T) {
	// Arrange
	outbox := memory.NewOutboxRepository()
	codec, err := avro.NewCodec()
	require.NoError(t, err)
	publisher := new(MockPublisher)
	relay := NewRelay(outbox, publisher, codec, kafkaCfg(), logger.NewNop())
	ctx := context.Background()

	insertEvent(t, outbox, contracts.Event{
		EventID: "ev-1", Type: contracts.EventOrderCreated,
		OrderID: "o-1", CustomerID: "c-1", TotalCents: 450,
		OccurredAt: time.Now().UTC(),
	})
	insertEvent(t, outbox, contracts.Event{
		EventID: "ev-2", Type: contracts.EventOrderStatusChanged,
		OrderID: "o-1", CustomerID: "c-1", Status: "processing",
		OccurredAt: time.Now().UTC(),
	})

	publisher.On("Publish", ctx, "order-events", "o-1", mock.MatchedBy(func(payload []byte) bool {
		return len(payload) > 0
	})).Return(nil).Twice()

	// Act
	err = relay.Drain(ctx)

	// Assert
	require.NoError(t, err)
	publisher.AssertExpectations(t)

	pending, err := outbox.FetchPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestRelay_Drain_PublishFailureKeepsRecordPending(t *testing.T) {
	// Arrange
	outbox := memory.NewOutboxRepository()
	codec, err := avro.NewCodec()
	require.NoError(t, err)
	publisher := new(MockPublisher)
	relay := NewRelay(outbox, publisher, codec, kafkaCfg(), logger.NewNop())
	ctx := context.Background()

	insertEvent(t, outbox, contracts.Event{
		EventID: "ev-1", Type: contracts.EventOrderCreated,
		OrderID: "o-1", CustomerID: "c-1",
		OccurredAt: time.Now().UTC(),
	})

	publisher.On("Publish", ctx, "order-events", "o-1", mock.Anything).
		Return(errors.New("broker unavailable"))

	// Act
	err = relay.Drain(ctx)

	// Assert: the record stays pending and will be retried, which is
	// exactly the at-least-once contract.
	require.Error(t, err)
	pending, err := outbox.FetchPending(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestRelay_Drain_SkipsPoisonRecords(t *testing.T) {
	// Arrange
	outbox := memory.NewOutboxRepository()
	codec, err := avro.NewCodec()
	require.NoError(t, err)
	publisher := new(MockPublisher)
	relay := NewRelay(outbox, publisher, codec, kafkaCfg(), logger.NewNop())
	ctx := context.Background()

	require.NoError(t, outbox.Insert(ctx, "ev-bad", "order-events", "o-x", []byte("{not json")))
	insertEvent(t, outbox, contracts.Event{
		EventID: "ev-ok", Type: contracts.EventOrderCreated,
		OrderID: "o-1", CustomerID: "c-1",
		OccurredAt: time.Now().UTC(),
	})

	publisher.On("Publish", ctx, "order-events", "o-1", mock.Anything).Return(nil).Once()

	// Act
	err = relay.Drain(ctx)

	// Assert: the poison record is dropped instead of wedging the queue.
	require.NoError(t, err)
	publisher.AssertExpectations(t)
	pending, err := outbox.FetchPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

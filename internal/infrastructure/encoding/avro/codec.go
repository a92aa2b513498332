package avro

import (
	"fmt"
	"sync"
	"time"

	"github.com/linkedin/goavro/v2"

	"order_engine/pkg/contracts"
)

// Codec converts notification events to and from Avro binary.
type Codec struct {
	codec *goavro.Codec
	mu    sync.Mutex
}

func NewCodec() (*Codec, error) {
	codec, err := goavro.NewCodec(OrderEventSchema)
	if err != nil {
		return nil, fmt.Errorf("create avro codec: %w", err)
	}
	return &Codec{codec: codec}, nil
}

func (c *Codec) Encode(ev contracts.Event) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	binary, err := c.codec.BinaryFromNative(nil, toNative(ev))
	if err != nil {
		return nil, fmt.Errorf("encode event to avro: %w", err)
	}
	return binary, nil
}

func (c *Codec) Decode(data []byte) (contracts.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	native, _, err := c.codec.NativeFromBinary(data)
	if err != nil {
		return contracts.Event{}, fmt.Errorf("decode avro event: %w", err)
	}
	record, ok := native.(map[string]interface{})
	if !ok {
		return contracts.Event{}, fmt.Errorf("avro event is not a record")
	}
	return fromNative(record)
}

// toNative wraps optional fields the way goavro expects union values:
// map[string]interface{}{"type": value}.
func toNative(ev contracts.Event) map[string]interface{} {
	out := map[string]interface{}{
		"event_id":    ev.EventID,
		"type":        ev.Type,
		"order_id":    ev.OrderID,
		"customer_id": ev.CustomerID,
		"occurred_at": ev.OccurredAt.UTC().Format(time.RFC3339Nano),
		"status":      nil,
		"total_cents": nil,
	}
	if ev.Status != "" {
		out["status"] = map[string]interface{}{"string": ev.Status}
	}
	if ev.TotalCents != 0 {
		out["total_cents"] = map[string]interface{}{"long": ev.TotalCents}
	}
	return out
}

func fromNative(record map[string]interface{}) (contracts.Event, error) {
	ev := contracts.Event{
		EventID:    asString(record["event_id"]),
		Type:       asString(record["type"]),
		OrderID:    asString(record["order_id"]),
		CustomerID: asString(record["customer_id"]),
	}

	occurredAt, err := time.Parse(time.RFC3339Nano, asString(record["occurred_at"]))
	if err != nil {
		return contracts.Event{}, fmt.Errorf("parse occurred_at: %w", err)
	}
	ev.OccurredAt = occurredAt

	if union, ok := record["status"].(map[string]interface{}); ok {
		ev.Status = asString(union["string"])
	}
	if union, ok := record["total_cents"].(map[string]interface{}); ok {
		if v, ok := union["long"].(int64); ok {
			ev.TotalCents = v
		}
	}
	return ev, nil
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

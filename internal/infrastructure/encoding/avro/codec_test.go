package avro

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order_engine/pkg/contracts"
)

func TestCodec_RoundTripWithOptionalFields(t *testing.T) {
	codec, err := NewCodec()
	require.NoError(t, err)

	ev := contracts.Event{
		EventID:    "ev-1",
		Type:       contracts.EventOrderCreated,
		OrderID:    "o-1",
		CustomerID: "c-1",
		Status:     "pending",
		TotalCents: 450,
		OccurredAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}

	data, err := codec.Encode(ev)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	decoded, err := codec.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, ev, decoded)
}

// Status changes carry no total; the union fields must survive as
// nulls rather than zero-filled garbage.
func TestCodec_NullUnions(t *testing.T) {
	codec, err := NewCodec()
	require.NoError(t, err)

	ev := contracts.Event{
		EventID:    "ev-2",
		Type:       contracts.EventFeedbackEligible,
		OrderID:    "o-2",
		CustomerID: "c-2",
		OccurredAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	data, err := codec.Encode(ev)
	require.NoError(t, err)

	decoded, err := codec.Decode(data)
	require.NoError(t, err)
	assert.Empty(t, decoded.Status)
	assert.Zero(t, decoded.TotalCents)
	assert.Equal(t, ev.OrderID, decoded.OrderID)
}

func TestCodec_RejectsGarbage(t *testing.T) {
	codec, err := NewCodec()
	require.NoError(t, err)

	_, err = codec.Decode([]byte{0xde, 0xad, 0xbe, 0xef})
	assert.Error(t, err)
}

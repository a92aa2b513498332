package avro

// OrderEventSchema is the Avro schema for notification events on the
// wire. Optional fields use ["null", type] unions so the same envelope
// serves order.created (with a total) and status changes (without).
const OrderEventSchema = `{
	"type": "record",
	"name": "OrderEvent",
	"namespace": "order_engine.events",
	"fields": [
		{"name": "event_id", "type": "string"},
		{"name": "type", "type": "string"},
		{"name": "order_id", "type": "string"},
		{"name": "customer_id", "type": "string"},
		{"name": "status", "type": ["null", "string"], "default": null},
		{"name": "total_cents", "type": ["null", "long"], "default": null},
		{"name": "occurred_at", "type": "string"}
	]
}`

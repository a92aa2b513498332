package contracts

import "time"

// Event is the envelope published for every order-engine notification.
// Consumers (email/SMS collaborators) receive it at-least-once.
type Event struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	OrderID    string    `json:"order_id"`
	CustomerID string    `json:"customer_id"`
	Status     string    `json:"status,omitempty"`
	TotalCents int64     `json:"total_cents,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventFeedbackEligible   = "feedback.eligible"
)

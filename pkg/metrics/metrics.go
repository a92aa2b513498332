package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// EngineMetrics counts the stock and order operations that matter for
// spotting oversell pressure and checkout failures in production.
// All methods are safe on a nil receiver so tests can run without a
// registry.
type EngineMetrics struct {
	reservations        prometheus.Counter
	reservationFailures *prometheus.CounterVec
	releases            prometheus.Counter
	ordersCreated       prometheus.Counter
	checkoutFailures    prometheus.Counter
	statusTransitions   *prometheus.CounterVec
}

func NewEngineMetrics() *EngineMetrics {
	m := &EngineMetrics{
		reservations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "order_engine",
			Subsystem: "stock",
			Name:      "reservations_total",
			Help:      "Successful stock reservations.",
		}),
		reservationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "order_engine",
			Subsystem: "stock",
			Name:      "reservation_failures_total",
			Help:      "Failed stock reservations by reason.",
		}, []string{"reason"}),
		releases: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "order_engine",
			Subsystem: "stock",
			Name:      "releases_total",
			Help:      "Stock quantities released back on cancellation or rollback.",
		}),
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "order_engine",
			Subsystem: "checkout",
			Name:      "orders_created_total",
			Help:      "Orders successfully created from carts.",
		}),
		checkoutFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "order_engine",
			Subsystem: "checkout",
			Name:      "failures_total",
			Help:      "Checkout attempts that failed and were rolled back.",
		}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "order_engine",
			Subsystem: "lifecycle",
			Name:      "status_transitions_total",
			Help:      "Order status transitions by target status.",
		}, []string{"to"}),
	}

	prometheus.MustRegister(
		m.reservations,
		m.reservationFailures,
		m.releases,
		m.ordersCreated,
		m.checkoutFailures,
		m.statusTransitions,
	)

	return m
}

func (m *EngineMetrics) ReservationOK() {
	if m == nil {
		return
	}
	m.reservations.Inc()
}

func (m *EngineMetrics) ReservationFailed(reason string) {
	if m == nil {
		return
	}
	m.reservationFailures.WithLabelValues(reason).Inc()
}

func (m *EngineMetrics) Released(quantity int) {
	if m == nil {
		return
	}
	m.releases.Add(float64(quantity))
}

func (m *EngineMetrics) OrderCreated() {
	if m == nil {
		return
	}
	m.ordersCreated.Inc()
}

func (m *EngineMetrics) CheckoutFailed() {
	if m == nil {
		return
	}
	m.checkoutFailures.Inc()
}

func (m *EngineMetrics) Transitioned(to string) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(to).Inc()
}

// Handler exposes the default prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

package metrics

import "github.com/prometheus/client_golang/prometheus"

// CheckoutMetrics counts payment session transitions.
type CheckoutMetrics struct {
	transitions *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_transitions_total",
		Help: "Checkout session state transitions.",
	}, []string{"from", "to"})
	reg.MustRegister(transitions)
	return &CheckoutMetrics{transitions: transitions}
}

// Transition records a move between two checkout states.
func (c *CheckoutMetrics) Transition(from, to string) {
	if c == nil || c.transitions == nil {
		return
	}
	c.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

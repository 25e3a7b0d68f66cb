package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PaymentMetrics counts the externally visible events of the payment flow.
type PaymentMetrics struct {
	Initiations prometheus.Counter
	Callbacks   *prometheus.CounterVec
	Reconciles  prometheus.Counter
}

func NewPaymentMetrics() *PaymentMetrics {
	initiations := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "checkout",
		Name:      "payment_initiations_total",
		Help:      "Total number of payment initiations.",
	})
	callbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "checkout",
		Name:      "gateway_callbacks_total",
		Help:      "Total number of gateway callbacks by verification result.",
	}, []string{"result"})
	reconciles := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "checkout",
		Name:      "payment_reconciles_total",
		Help:      "Total number of explicit transaction rechecks.",
	})

	prometheus.MustRegister(initiations, callbacks, reconciles)
	return &PaymentMetrics{
		Initiations: initiations,
		Callbacks:   callbacks,
		Reconciles:  reconciles,
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}

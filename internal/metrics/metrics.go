package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	OrdersPlaced  prometheus.Counter
	StatusChanges *prometheus.CounterVec
	PushSent      prometheus.Counter
	PushFailed    prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		OrdersPlaced: factory.NewCounter(prometheus.CounterOpts{
			Name: "foodline_orders_placed_total",
			Help: "Orders successfully created.",
		}),
		StatusChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "foodline_order_status_changes_total",
			Help: "Order status transitions by target status.",
		}, []string{"status"}),
		PushSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "foodline_push_sent_total",
			Help: "Push notifications delivered to the provider.",
		}),
		PushFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "foodline_push_failed_total",
			Help: "Push notification attempts that failed or were skipped on error.",
		}),
	}
}

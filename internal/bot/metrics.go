package bot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics covers the bot front end; API call metrics live in the metrics
// package next to the HTTP client.
type Metrics struct {
	MessagesProcessed    prometheus.Counter
	CommandsProcessed    prometheus.Counter
	OrdersCreated        prometheus.Counter
	OrderTotal           prometheus.Histogram
	HandlerPanics        prometheus.Counter
	UpdateProcessingTime prometheus.Histogram
}

func NewMetrics() *Metrics {
	return &Metrics{
		MessagesProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "meo_pos",
			Subsystem: "bot",
			Name:      "messages_processed_total",
			Help:      "Total number of messages processed",
		}),
		CommandsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "meo_pos",
			Subsystem: "bot",
			Name:      "commands_processed_total",
			Help:      "Total number of commands processed",
		}),
		OrdersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "meo_pos",
			Subsystem: "bot",
			Name:      "orders_created_total",
			Help:      "Total number of orders submitted successfully",
		}),
		OrderTotal: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "meo_pos",
			Subsystem: "bot",
			Name:      "order_total_vnd",
			Help:      "Distribution of order totals in minor units",
			Buckets:   prometheus.ExponentialBuckets(10000, 2, 12),
		}),
		HandlerPanics: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "meo_pos",
			Subsystem: "bot",
			Name:      "handler_panics_total",
			Help:      "Total number of recovered handler panics",
		}),
		UpdateProcessingTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "meo_pos",
			Subsystem: "bot",
			Name:      "update_processing_seconds",
			Help:      "Time spent handling a single update",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "meo_pos",
			Name:      "api_requests_total",
			Help:      "Backend API requests by operation and status code.",
		},
		[]string{"op", "code"},
	)

	apiDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "meo_pos",
			Name:      "api_request_duration_seconds",
			Help:      "Backend API request latency by operation.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	guardDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "meo_pos",
			Name:      "click_guard_dropped_total",
			Help:      "Add actions suppressed by the click guard.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(apiRequests, apiDuration, guardDropped)
	})
}

// ObserveAPIRequest records one backend call. A zero code means the
// request never produced a response (network error).
func ObserveAPIRequest(op string, code int, duration time.Duration) {
	label := "none"
	if code > 0 {
		label = strconv.Itoa(code)
	}
	apiRequests.WithLabelValues(op, label).Inc()
	apiDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// IncGuardDropped counts a suppressed duplicate add.
func IncGuardDropped() {
	guardDropped.Inc()
}

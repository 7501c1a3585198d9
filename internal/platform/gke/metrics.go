package gke

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gkeops",
		Subsystem: "gateway",
		Name:      "requests_total",
		Help:      "Control plane requests dispatched through the throttled gateway.",
	}, []string{"operation"})

	throttleWaitSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gkeops",
		Subsystem: "gateway",
		Name:      "throttle_wait_seconds",
		Help:      "Time spent waiting for the rate limiter before dispatch.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
	}, []string{"operation"})
)

func observeRequest(op string, waited time.Duration) {
	requestsTotal.WithLabelValues(op).Inc()
	throttleWaitSeconds.WithLabelValues(op).Observe(waited.Seconds())
}

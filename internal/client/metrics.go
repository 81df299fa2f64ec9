package client

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	apiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pizza_admin_api_requests_total",
			Help: "Total number of requests sent to the catalog backend.",
		},
		[]string{"method", "route", "status"},
	)

	apiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pizza_admin_api_request_duration_seconds",
			Help:    "Catalog backend request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// RegisterMetrics registers the client collectors with reg
func RegisterMetrics(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{apiRequestsTotal, apiRequestDuration} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func observeRequest(method, route, status string, start time.Time) {
	apiRequestsTotal.WithLabelValues(method, route, status).Inc()
	apiRequestDuration.WithLabelValues(method, route, status).Observe(time.Since(start).Seconds())
}

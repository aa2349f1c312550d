package dashboard

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts requests by route pattern and HTTP status code.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cordex_dashboard_requests_total",
		Help: "Total number of dashboard requests",
	}, []string{"route", "code"})

	// ViewSeconds measures filter plus aggregation time per request.
	ViewSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cordex_dashboard_view_seconds",
		Help:    "Time spent filtering and aggregating records",
		Buckets: prometheus.DefBuckets,
	})

	// RateLimitedTotal counts requests rejected by the rate limiter.
	RateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cordex_dashboard_rate_limited_total",
		Help: "Total number of rate-limited dashboard requests",
	})
)

package search

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess     = "success"
	outcomeStatusError = "status_error"
	outcomeTimeout     = "timeout"
	outcomeUnreachable = "unreachable"
)

var (
	upstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "second_service_upstream_requests_total",
			Help: "Total number of requests forwarded to the search service",
		},
		[]string{"outcome"},
	)

	upstreamRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "second_service_upstream_request_duration_seconds",
			Help:    "Search service round-trip latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

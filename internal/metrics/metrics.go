package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tagmein_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tagmein_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Scroll metrics
	MessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tagmein_messages_sent_total",
			Help: "Total sends committed",
		},
		[]string{"direction"}, // "up", "down" or "flat"
	)

	Seeks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tagmein_seeks_total",
			Help: "Total seek queries served",
		},
	)

	ValidationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tagmein_validation_failures_total",
			Help: "Total sends rejected by validation",
		},
	)

	StorageErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tagmein_storage_errors_total",
			Help: "Total key-value backend failures",
		},
		[]string{"op"},
	)

	// Rate limit metrics
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tagmein_rate_limit_hits_total",
			Help: "Total rate limit hits",
		},
		[]string{"endpoint"},
	)

	BlockedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tagmein_blocked_requests_total",
			Help: "Total blocked requests",
		},
		[]string{"reason"},
	)

	// Infrastructure metrics
	KVLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tagmein_kv_latency_seconds",
			Help:    "Key-value backend operation latency",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
		},
		[]string{"backend", "op"},
	)
)

// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SignupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slot_signups_total",
			Help: "Total number of slot signup actions",
		},
		[]string{"action"},
	)

	GradeWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grade_writes_total",
			Help: "Total number of grade create/update operations",
		},
		[]string{"ta"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)

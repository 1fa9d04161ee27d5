package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	latencyBuckets = []float64{
		0.005, 0.01, 0.025,
		0.05, 0.1, 0.25,
		0.5, 1, 2.5,
		5, 10,
	}

	ModerationTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "safegate_moderation_total",
			Help: "Total number of moderation verdicts",
		},
		[]string{"content_type", "severity", "action", "status"},
	)

	ModerationDuration = promauto.With(registerer).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "safegate_moderation_duration_seconds",
			Help:    "End-to-end moderation pipeline latency",
			Buckets: latencyBuckets,
		},
	)

	ClassifierRequests = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "safegate_classifier_requests_total",
			Help: "External classifier call outcomes",
		},
		[]string{"outcome"}, // success, degraded
	)

	NotificationsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "safegate_notifications_total",
			Help: "Guardian notification delivery outcomes",
		},
		[]string{"outcome"}, // delivered, failed, dropped
	)

	QuickCheckCacheTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "safegate_quickcheck_cache_total",
			Help: "Quick-check cache lookups",
		},
		[]string{"result"}, // hit, miss
	)
)

// Registry exposes the service registry for the metrics endpoint.
func Registry() *prometheus.Registry {
	return registry
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the application metrics shared across binaries.
type Metrics struct {
	// Classifier metrics
	ClassifierRequests *prometheus.CounterVec
	ClassifierLatency  prometheus.Histogram

	// Search metrics
	SearchRequests *prometheus.CounterVec

	// Outbox metrics
	OutboxEventsProcessed prometheus.Counter
	OutboxEventsFailed    prometheus.Counter
	OutboxRetries         *prometheus.CounterVec
	OutboxLatency         prometheus.Histogram
}

// New creates and registers all application metrics under namespace.
func New(namespace string) *Metrics {
	return &Metrics{
		ClassifierRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifier_requests_total",
			Help:      "Total number of image classifier calls by outcome",
		}, []string{"outcome"}),
		ClassifierLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "classifier_request_duration_seconds",
			Help:      "Duration of image classifier calls",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		SearchRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Total number of catalog searches by mode and outcome",
		}, []string{"mode", "outcome"}),
		OutboxEventsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_processed_total",
			Help:      "Total number of successfully published outbox events",
		}),
		OutboxEventsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_failed_total",
			Help:      "Total number of outbox events that exhausted retries",
		}),
		OutboxRetries: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_retry_attempts_total",
			Help:      "Total number of publish retry attempts",
		}, []string{"event_type"}),
		OutboxLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "outbox_processing_duration_seconds",
			Help:      "Time spent processing outbox batches",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}),
	}
}

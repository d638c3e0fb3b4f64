package audit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PublisherMetrics counts the fates of emitted audit events.
type PublisherMetrics struct {
	Published prometheus.Counter
	Dropped   prometheus.Counter
	Failures  prometheus.Counter
}

// NewPublisherMetrics registers the publisher counters on reg.
func NewPublisherMetrics(service string, reg prometheus.Registerer) *PublisherMetrics {
	labels := prometheus.Labels{"service": service}
	return &PublisherMetrics{
		Published: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name:        "audit_events_published_total",
			Help:        "Audit events successfully published to the bus.",
			ConstLabels: labels,
		}),
		Dropped: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name:        "audit_events_dropped_total",
			Help:        "Audit events dropped because the publish queue was full.",
			ConstLabels: labels,
		}),
		Failures: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name:        "audit_publish_failures_total",
			Help:        "Audit events that failed to publish to the bus.",
			ConstLabels: labels,
		}),
	}
}

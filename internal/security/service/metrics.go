package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts the ingest pipeline outcomes.
type Metrics struct {
	Ingested     *prometheus.CounterVec
	Deduplicated prometheus.Counter
	HighRisk     prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Ingested: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "security",
			Name:      "events_ingested_total",
			Help:      "Audit events materialized into the log, by event type.",
		}, []string{"event_type"}),
		Deduplicated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "security",
			Name:      "events_deduplicated_total",
			Help:      "Redelivered audit events dropped by the dedup store.",
		}),
		HighRisk: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "security",
			Name:      "high_risk_events_total",
			Help:      "Ingested events whose risk score crossed the alert threshold.",
		}),
	}
}

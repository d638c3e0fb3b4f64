// Package consumer feeds audit events from the bus into the security
// ingest pipeline.
package consumer

import (
	"context"
	"encoding/json"
	"log/slog"

	"dundies/internal/audit"
	"dundies/internal/platform/kafka/consumer"
)

// Ingester is the pipeline entry point.
type Ingester interface {
	Ingest(ctx context.Context, event audit.Event) error
}

// EventHandler decodes audit events off the Kafka topic. Malformed payloads
// are logged and committed; they would fail the same way on every redelivery.
type EventHandler struct {
	ingester Ingester
	logger   *slog.Logger
}

func NewEventHandler(ingester Ingester, logger *slog.Logger) *EventHandler {
	return &EventHandler{ingester: ingester, logger: logger}
}

func (h *EventHandler) Handle(ctx context.Context, msg *consumer.Message) error {
	var event audit.Event
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		h.logger.ErrorContext(ctx, "malformed audit event, skipping",
			"topic", msg.Topic,
			"key", string(msg.Key),
			"error", err,
		)
		return nil
	}
	return h.ingester.Ingest(ctx, event)
}

// ChannelWorker drains an in-process bus into the pipeline. Used when the
// security service runs colocated with producers, without Kafka.
type ChannelWorker struct {
	bus      *audit.ChannelBus
	ingester Ingester
	logger   *slog.Logger
}

func NewChannelWorker(bus *audit.ChannelBus, ingester Ingester, logger *slog.Logger) *ChannelWorker {
	return &ChannelWorker{bus: bus, ingester: ingester, logger: logger}
}

// Run consumes until the context is cancelled. Ingest failures are logged
// and the event dropped; the in-process bus has no redelivery.
func (w *ChannelWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.bus.Events():
			if err := w.ingester.Ingest(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "audit event ingest failed",
					"event_id", event.ID,
					"event_type", event.EventType,
					"error", err,
				)
			}
		}
	}
}

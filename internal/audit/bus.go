package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"dundies/internal/platform/config"
	"dundies/internal/platform/kafka/producer"
)

// Bus is the durable topic the publisher writes to. Delivery downstream is
// at-least-once; consumers deduplicate on Event.ID.
type Bus interface {
	Publish(ctx context.Context, event Event) error
}

// NewBus selects the bus from configuration: Kafka when brokers are set,
// log-only otherwise. The returned close func releases the producer.
func NewBus(ctx context.Context, cfg config.Kafka, logger *slog.Logger) (Bus, func(), error) {
	if len(cfg.Brokers) == 0 {
		logger.Warn("kafka brokers not configured, audit events will be logged only")
		return NewLogBus(logger), func() {}, nil
	}
	p, err := producer.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return NewKafkaBus(p), p.Close, nil
}

// KafkaBus publishes events as JSON records keyed by event ID.
type KafkaBus struct {
	producer *producer.Producer
}

func NewKafkaBus(p *producer.Producer) *KafkaBus {
	return &KafkaBus{producer: p}
}

func (b *KafkaBus) Publish(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	return b.producer.Publish(ctx, []byte(event.ID), value)
}

// ChannelBus is an in-process bus for development and tests. Subscribers
// drain Events; the buffer bounds memory when nothing consumes.
type ChannelBus struct {
	ch chan Event
}

func NewChannelBus(buffer int) *ChannelBus {
	if buffer <= 0 {
		buffer = 1024
	}
	return &ChannelBus{ch: make(chan Event, buffer)}
}

func (b *ChannelBus) Publish(_ context.Context, event Event) error {
	select {
	case b.ch <- event:
		return nil
	default:
		return fmt.Errorf("channel bus full, dropping event %s", event.ID)
	}
}

// Events exposes the subscriber side.
func (b *ChannelBus) Events() <-chan Event {
	return b.ch
}

// LogBus is the fallback when no bus is configured: events are logged and
// discarded, keeping producers runnable without Kafka.
type LogBus struct {
	logger *slog.Logger
}

func NewLogBus(logger *slog.Logger) *LogBus {
	return &LogBus{logger: logger}
}

func (b *LogBus) Publish(ctx context.Context, event Event) error {
	b.logger.InfoContext(ctx, "audit event (bus not configured)",
		"event_id", event.ID,
		"event_type", event.EventType,
		"resource_id", event.ResourceID,
	)
	return nil
}

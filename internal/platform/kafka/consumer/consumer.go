// Package consumer wraps the franz-go group consumer. Messages are handed to
// a Handler one at a time; offsets commit only after the handler returns,
// which gives at-least-once delivery. Handlers must be idempotent.
package consumer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"dundies/internal/platform/config"
)

// Message is the transport-level view of one consumed record.
type Message struct {
	Topic string
	Key   []byte
	Value []byte
}

// Handler processes one message. Returning an error leaves the offset
// uncommitted so the message is redelivered.
type Handler interface {
	Handle(ctx context.Context, msg *Message) error
}

// Consumer runs a Kafka group consumer loop.
type Consumer struct {
	client  *kgo.Client
	handler Handler
	logger  *slog.Logger
}

// New builds a group consumer for the configured topic.
func New(cfg config.Kafka, handler Handler, logger *slog.Logger) (*Consumer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ConsumerGroup(cfg.Group),
		kgo.ConsumeTopics(cfg.Topic),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer: %w", err)
	}
	return &Consumer{client: client, handler: handler, logger: logger}, nil
}

// Run polls until the context is cancelled. Handler failures stall the
// partition (no commit) rather than dropping the message.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		fetches := c.client.PollFetches(ctx)
		if err := ctx.Err(); err != nil {
			return err
		}
		if errs := fetches.Errors(); len(errs) > 0 {
			for _, fe := range errs {
				if errors.Is(fe.Err, context.Canceled) {
					return fe.Err
				}
				c.logger.Error("kafka fetch error",
					"topic", fe.Topic,
					"partition", fe.Partition,
					"error", fe.Err,
				)
			}
			continue
		}

		var handled []*kgo.Record
		var failed bool
		fetches.EachRecord(func(record *kgo.Record) {
			if failed {
				return
			}
			msg := &Message{Topic: record.Topic, Key: record.Key, Value: record.Value}
			if err := c.handler.Handle(ctx, msg); err != nil {
				c.logger.Error("message handling failed, will redeliver",
					"topic", record.Topic,
					"key", string(record.Key),
					"error", err,
				)
				failed = true
				return
			}
			handled = append(handled, record)
		})

		if len(handled) > 0 {
			if err := c.client.CommitRecords(ctx, handled...); err != nil {
				c.logger.Error("offset commit failed", "error", err)
			}
		}
	}
}

// Close leaves the group and releases the client.
func (c *Consumer) Close() {
	c.client.Close()
}

package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"dundies/internal/platform/middleware"
)

// Publisher emits audit events without ever failing the calling operation.
// Emit stamps identity and timestamp, hands the event to a bounded queue, and
// returns; a background worker publishes to the bus. Queue overflow and bus
// failures are logged and counted, never propagated.
type Publisher struct {
	bus     Bus
	logger  *slog.Logger
	metrics *PublisherMetrics
	queue   chan Event

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithLogger sets the logger used for failure reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) { p.logger = logger }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *PublisherMetrics) Option {
	return func(p *Publisher) { p.metrics = m }
}

// WithQueueSize overrides the default queue capacity.
func WithQueueSize(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.queue = make(chan Event, n)
		}
	}
}

// NewPublisher starts the background worker. Callers must Close to flush.
func NewPublisher(bus Bus, opts ...Option) *Publisher {
	p := &Publisher{
		bus:    bus,
		logger: slog.Default(),
		queue:  make(chan Event, 1024),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	go p.run()
	return p
}

// Emit queues an event for publication. It never blocks and never returns an
// error: audit must not affect the primary operation's outcome.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	if event.IPAddress == "" {
		event.IPAddress = middleware.GetClientIP(ctx)
	}
	if event.UserAgent == "" {
		event.UserAgent = middleware.GetUserAgent(ctx)
	}

	select {
	case p.queue <- event:
	default:
		if p.metrics != nil {
			p.metrics.Dropped.Inc()
		}
		p.logger.Warn("audit queue full, dropping event",
			"event_id", event.ID,
			"event_type", event.EventType,
		)
	}
}

func (p *Publisher) run() {
	defer close(p.done)
	for {
		select {
		case event := <-p.queue:
			p.publish(event)
		case <-p.stop:
			// Drain what is already queued before exiting.
			for {
				select {
				case event := <-p.queue:
					p.publish(event)
				default:
					return
				}
			}
		}
	}
}

func (p *Publisher) publish(event Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := p.bus.Publish(ctx, event); err != nil {
		if p.metrics != nil {
			p.metrics.Failures.Inc()
		}
		p.logger.Error("failed to publish audit event",
			"event_id", event.ID,
			"event_type", event.EventType,
			"error", err,
		)
		return
	}
	if p.metrics != nil {
		p.metrics.Published.Inc()
	}
}

// Close stops the worker after draining the queue.
func (p *Publisher) Close() {
	p.stopOnce.Do(func() { close(p.stop) })
	<-p.done
}

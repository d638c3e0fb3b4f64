package consumer

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dundies/internal/audit"
	"dundies/internal/platform/kafka/consumer"
)

type recordingIngester struct {
	mu     sync.Mutex
	events []audit.Event
	err    error
}

func (r *recordingIngester) Ingest(_ context.Context, event audit.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, event)
	return nil
}

func (r *recordingIngester) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func TestEventHandlerDecodesAndIngests(t *testing.T) {
	ingester := &recordingIngester{}
	handler := NewEventHandler(ingester, slog.Default())

	event := audit.VoteCast("emp_001", "Jim Halpert", "nom_1", "vote_1")
	event.ID = uuid.NewString()
	value, err := json.Marshal(event)
	require.NoError(t, err)

	err = handler.Handle(context.Background(), &consumer.Message{
		Topic: "audit-events",
		Key:   []byte(event.ID),
		Value: value,
	})
	require.NoError(t, err)

	require.Len(t, ingester.events, 1)
	assert.Equal(t, event.ID, ingester.events[0].ID)
	assert.Equal(t, audit.EventVoteCast, ingester.events[0].EventType)
}

func TestEventHandlerSkipsMalformedPayload(t *testing.T) {
	ingester := &recordingIngester{}
	handler := NewEventHandler(ingester, slog.Default())

	// Committing the offset for garbage is deliberate: redelivery cannot fix it.
	err := handler.Handle(context.Background(), &consumer.Message{
		Topic: "audit-events",
		Value: []byte("not json"),
	})
	assert.NoError(t, err)
	assert.Empty(t, ingester.events)
}

func TestChannelWorkerDrainsBus(t *testing.T) {
	bus := audit.NewChannelBus(16)
	ingester := &recordingIngester{}
	worker := NewChannelWorker(bus, ingester, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = worker.Run(ctx)
	}()

	for i := 0; i < 3; i++ {
		event := audit.VoteCast("emp_001", "Jim Halpert", "nom_1", "vote_1")
		event.ID = uuid.NewString()
		require.NoError(t, bus.Publish(ctx, event))
	}

	require.Eventually(t, func() bool { return ingester.count() == 3 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop on cancel")
	}
}

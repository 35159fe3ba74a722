package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/maintenance-service/internal/domain"
)

func TestDispatcher_FailingHandlerDoesNotStopOthers(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	var seen []string
	d.Subscribe(EventTicketCreated, func(context.Context, Event) error {
		seen = append(seen, "first")
		return errors.New("boom")
	})
	d.Subscribe(EventTicketCreated, func(context.Context, Event) error {
		seen = append(seen, "second")
		return nil
	})
	d.Subscribe(EventTicketNoteAdded, func(context.Context, Event) error {
		seen = append(seen, "other")
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketCreated}))
	assert.Equal(t, []string{"first", "second"}, seen)
}

type fakePublisher struct {
	channel  string
	messages [][]byte
	err      error
}

func (f *fakePublisher) Publish(_ context.Context, channel string, message interface{}) *redis.IntCmd {
	f.channel = channel
	if b, ok := message.([]byte); ok {
		f.messages = append(f.messages, b)
	}
	return redis.NewIntResult(1, f.err)
}

func TestRedisRelay_ForwardsEveryEventType(t *testing.T) {
	pub := &fakePublisher{}
	d := NewInMemoryDispatcher(nil)
	NewRedisRelay(pub, "maintenance:events", nil).Register(d)

	ctx := context.Background()
	for _, eventType := range AllEventTypes {
		require.NoError(t, d.Publish(ctx, Event{ID: "e", Type: eventType, TicketID: "t1", Timestamp: time.Now()}))
	}

	assert.Equal(t, "maintenance:events", pub.channel)
	require.Len(t, pub.messages, len(AllEventTypes))

	var decoded Event
	require.NoError(t, json.Unmarshal(pub.messages[1], &decoded))
	assert.Equal(t, EventTicketStatusChanged, decoded.Type)
	assert.Equal(t, "t1", decoded.TicketID)
}

func TestRedisRelay_PublishErrorIsReturned(t *testing.T) {
	pub := &fakePublisher{err: errors.New("connection refused")}
	relay := NewRedisRelay(pub, "c", nil)

	err := relay.forward(context.Background(), Event{Type: EventTicketAssigned, Payload: TicketAssignedPayload{NewAssignee: "CleanCo"}})
	assert.ErrorContains(t, err, "connection refused")
}

func TestRedisRelay_NilPublisherRegistersNothing(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	NewRedisRelay(nil, "c", nil).Register(d)
	require.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketCreated, Payload: TicketCreatedPayload{Priority: domain.TicketPriorityLow}}))
}

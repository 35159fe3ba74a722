package worker

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/maintenance-service/internal/config"
	"github.com/spec-kit/maintenance-service/internal/events"
	"github.com/spec-kit/maintenance-service/internal/service"
)

type countingPublisher struct {
	channels []string
}

func (p *countingPublisher) Publish(_ context.Context, channel string, _ interface{}) *redis.IntCmd {
	p.channels = append(p.channels, channel)
	return redis.NewIntResult(1, nil)
}

func TestStartEventSubscribers_RegistersRelayForEveryEvent(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(nil)
	notifications := service.NewNotificationService(dispatcher, nil, config.NotificationConfig{WebhookURL: "http://hooks.local"})
	publisher := &countingPublisher{}

	StartEventSubscribers(dispatcher, notifications, events.NewRedisRelay(publisher, "maintenance:events", nil))

	for _, eventType := range events.AllEventTypes {
		require.NoError(t, dispatcher.Publish(context.Background(), events.Event{Type: eventType, TicketID: "t1"}))
	}
	assert.Len(t, publisher.channels, len(events.AllEventTypes))
	for _, ch := range publisher.channels {
		assert.Equal(t, "maintenance:events", ch)
	}
}

func TestStartEventSubscribers_NilRelay(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(nil)
	StartEventSubscribers(dispatcher, nil, nil)
	assert.NoError(t, dispatcher.Publish(context.Background(), events.Event{Type: events.EventTicketCreated}))
}

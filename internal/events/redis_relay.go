package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Publisher is the subset of the go-redis client the relay needs.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisRelay forwards ticket events to a Redis channel so dashboards running
// in other processes can refresh.
type RedisRelay struct {
	publisher Publisher
	channel   string
	logger    *zap.Logger
}

// NewRedisRelay creates a relay. A nil publisher yields a relay that does nothing.
func NewRedisRelay(publisher Publisher, channel string, logger *zap.Logger) *RedisRelay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisRelay{publisher: publisher, channel: channel, logger: logger}
}

// Register subscribes the relay to every ticket event.
func (r *RedisRelay) Register(dispatcher Dispatcher) {
	if r == nil || r.publisher == nil || dispatcher == nil {
		return
	}
	for _, eventType := range AllEventTypes {
		dispatcher.Subscribe(eventType, r.forward)
	}
}

func (r *RedisRelay) forward(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	receivers, err := r.publisher.Publish(ctx, r.channel, payload).Result()
	if err != nil {
		return fmt.Errorf("publish %s: %w", r.channel, err)
	}
	r.logger.Debug("event relayed",
		zap.String("channel", r.channel),
		zap.String("event_type", string(event.Type)),
		zap.Int64("receivers", receivers))
	return nil
}

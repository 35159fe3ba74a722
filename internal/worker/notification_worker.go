package worker

import (
	"github.com/spec-kit/maintenance-service/internal/events"
	"github.com/spec-kit/maintenance-service/internal/service"
)

// StartEventSubscribers registers notification handlers and, when present,
// the Redis relay on the dispatcher.
func StartEventSubscribers(dispatcher events.Dispatcher, notificationService *service.NotificationService, relay *events.RedisRelay) {
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	if relay != nil {
		relay.Register(dispatcher)
	}
}

package worker

import (
	"context"

	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/service"
)

// StartEventSubscribers registers the in-process consumers of domain events:
// the prometheus event counter and, when a cache is configured, stats invalidation.
func StartEventSubscribers(dispatcher events.Dispatcher, metrics *observability.Metrics, adminService *service.AdminService) {
	if dispatcher == nil {
		return
	}
	for _, eventType := range events.AllEventTypes {
		dispatcher.Subscribe(eventType, countEvent(metrics))
	}
	if adminService != nil {
		adminService.SubscribeCacheInvalidation(dispatcher)
	}
}

func countEvent(metrics *observability.Metrics) events.EventHandler {
	return func(_ context.Context, event events.Event) error {
		metrics.RecordEvent(string(event.Type))
		return nil
	}
}

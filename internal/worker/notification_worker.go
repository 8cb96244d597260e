package worker

import (
	"github.com/spec-kit/complaint-console/internal/events"
	"github.com/spec-kit/complaint-console/internal/feed"
	"github.com/spec-kit/complaint-console/internal/service"
)

// StartNotificationWorker registers the handlers that fan complaint events
// out to email and the live activity feed.
func StartNotificationWorker(dispatcher events.Dispatcher, notifications *service.NotificationService, activityFeed *feed.ActivityFeed) {
	if dispatcher == nil {
		return
	}
	if notifications != nil {
		notifications.RegisterHandlers(dispatcher)
	}
	if activityFeed != nil {
		activityFeed.RegisterHandlers(dispatcher)
	}
}

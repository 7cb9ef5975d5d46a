package worker

import (
	"github.com/spec-kit/civic-complaints/internal/service"
)

// StartNotificationWorker registers delivery handlers on the event
// dispatcher.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}

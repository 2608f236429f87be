package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/service"
)

// StartNotificationWorker subscribes the notification handlers to account
// events. It is a no-op without a notification service.
func StartNotificationWorker(notificationService *service.NotificationService, logger *zap.Logger) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
	logger.Info("notification worker started")
}

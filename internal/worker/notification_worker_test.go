package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/blog-service/internal/config"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/service"
)

func TestStartNotificationWorkerSubscribes(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)
	dispatcher := events.NewInMemoryDispatcher()

	StartNotificationWorker(service.NewNotificationService(dispatcher, logger, config.NotificationConfig{}), logger)

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:      events.EventAccountRegistered,
		AccountID: "acc-1",
		Payload:   events.AccountRegisteredPayload{Email: "ada@example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("AccountRegistered").Len())
}

func TestStartNotificationWorkerNil(t *testing.T) {
	assert.NotPanics(t, func() { StartNotificationWorker(nil, zap.NewNop()) })
}

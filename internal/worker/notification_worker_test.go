package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/eventpass/internal/config"
	"github.com/spec-kit/eventpass/internal/events"
	"github.com/spec-kit/eventpass/internal/observability"
	"github.com/spec-kit/eventpass/internal/service"
)

func TestStartNotificationWorker(t *testing.T) {
	StartNotificationWorker(nil)

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	StartNotificationWorker(service.NewNotificationService(dispatcher, zap.NewNop(), metrics, config.NotificationConfig{}))

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{Type: events.EventUsuarioRegistrado}))
	assert.EqualValues(t, 1, metrics.Snapshot().Events[string(events.EventUsuarioRegistrado)])
}

func TestStartEventRelayDisabledWithoutURL(t *testing.T) {
	relay := StartEventRelay(config.AMQPConfig{Exchange: "eventpass.events"}, events.NewInMemoryDispatcher(), zap.NewNop())
	assert.Nil(t, relay)
}

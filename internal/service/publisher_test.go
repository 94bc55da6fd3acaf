package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/eventpass/internal/events"
)

func TestPublishLogsHandlerFailures(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	dispatcher := events.NewInMemoryDispatcher()
	dispatcher.Subscribe(events.EventUsuarioRemovido, func(context.Context, events.Event) error {
		return errors.New("amqp: channel closed")
	})

	p := newPublisher(dispatcher, zap.New(core))
	p.publish(context.Background(), events.Event{Type: events.EventUsuarioRemovido, ActorID: 5})
	p.publish(context.Background(), events.Event{Type: events.EventEventoCriado, ActorID: 5})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "event dispatch failed", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, string(events.EventUsuarioRemovido), fields["event_type"])
	assert.Equal(t, int64(5), fields["actor_id"])
	assert.Contains(t, fields["error"], "channel closed")
}

func TestPublishWithoutDispatcher(t *testing.T) {
	assert.NotPanics(t, func() {
		newPublisher(nil, nil).publish(context.Background(), events.Event{Type: events.EventEventoCriado})
	})
}

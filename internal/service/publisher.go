package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/eventpass/internal/events"
)

// publisher dispatches domain events after a write has committed. Handler
// failures never undo the write; they are logged.
type publisher struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

func newPublisher(dispatcher events.Dispatcher, logger *zap.Logger) publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return publisher{dispatcher: dispatcher, logger: logger}
}

func (p publisher) publish(ctx context.Context, event events.Event) {
	if p.dispatcher == nil {
		return
	}
	if err := p.dispatcher.Publish(ctx, event); err != nil {
		p.logger.Warn("event dispatch failed",
			zap.String("event_type", string(event.Type)),
			zap.Int64("actor_id", event.ActorID),
			zap.Error(err))
	}
}

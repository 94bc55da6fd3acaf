package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/eventpass/internal/config"
	"github.com/spec-kit/eventpass/internal/events"
	"github.com/spec-kit/eventpass/internal/service"
)

// StartNotificationWorker registers notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}

// StartEventRelay forwards every domain event to the broker when AMQP is configured.
// The returned relay must be closed on shutdown; it is nil when relaying is disabled.
func StartEventRelay(cfg config.AMQPConfig, dispatcher events.Dispatcher, logger *zap.Logger) *events.AMQPRelay {
	if cfg.URL == "" || dispatcher == nil {
		logger.Info("event relay disabled")
		return nil
	}
	relay, err := events.NewAMQPRelay(cfg.URL, cfg.Exchange, logger)
	if err != nil {
		logger.Warn("event relay unavailable", zap.Error(err))
		return nil
	}
	relay.Register(dispatcher)
	logger.Info("event relay started", zap.String("exchange", cfg.Exchange))
	return relay
}

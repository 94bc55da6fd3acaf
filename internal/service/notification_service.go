package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/eventpass/internal/config"
	"github.com/spec-kit/eventpass/internal/events"
	"github.com/spec-kit/eventpass/internal/observability"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, t := range events.AllEventTypes {
		n.dispatcher.Subscribe(t, n.record)
	}
	n.dispatcher.Subscribe(events.EventUsuarioRegistrado, n.handleUsuarioRegistrado)
	n.dispatcher.Subscribe(events.EventSenhaRedefinicaoPedida, n.handleSenhaRedefinicaoPedida)
	n.dispatcher.Subscribe(events.EventIngressoEmitido, n.handleIngressoEmitido)
	n.dispatcher.Subscribe(events.EventIngressoStatusAlterado, n.handleIngressoStatusAlterado)
	n.dispatcher.Subscribe(events.EventEventoRemovido, n.handleEventoRemovido)
}

func (n *NotificationService) record(_ context.Context, event events.Event) error {
	n.metrics.RecordEvent(string(event.Type))
	return nil
}

func (n *NotificationService) handleUsuarioRegistrado(ctx context.Context, event events.Event) error {
	n.logger.Info("UsuarioRegistrado", zap.Int64("actor_id", event.ActorID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

// The payload holds the reset token, so only the usuario id is logged.
func (n *NotificationService) handleSenhaRedefinicaoPedida(ctx context.Context, event events.Event) error {
	n.logger.Info("SenhaRedefinicaoPedida", zap.Int64("usuario_id", event.ActorID))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleIngressoEmitido(ctx context.Context, event events.Event) error {
	n.logger.Info("IngressoEmitido", zap.Int64("actor_id", event.ActorID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleIngressoStatusAlterado(ctx context.Context, event events.Event) error {
	n.logger.Info("IngressoStatusAlterado", zap.Int64("actor_id", event.ActorID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleEventoRemovido(ctx context.Context, event events.Event) error {
	n.logger.Info("EventoRemovido", zap.Int64("actor_id", event.ActorID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))
}

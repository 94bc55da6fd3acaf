package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// publishTimeout bounds a single relay publish when called from request paths.
const publishTimeout = 3 * time.Second

// Publisher is the channel operation the relay needs; *amqp.Channel satisfies it.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPRelay forwards domain events to a topic exchange, routing by event type.
type AMQPRelay struct {
	mu       sync.Mutex
	url      string
	exchange string
	conn     *amqp.Connection
	channel  Publisher
	logger   *zap.Logger
}

// NewAMQPRelay dials the broker and declares a durable topic exchange.
func NewAMQPRelay(url, exchange string, logger *zap.Logger) (*AMQPRelay, error) {
	r := &AMQPRelay{url: url, exchange: exchange, logger: logger}
	if err := r.connect(); err != nil {
		return nil, err
	}
	logger.Info("connected to amqp broker", zap.String("exchange", exchange))
	return r, nil
}

// NewAMQPRelayWithPublisher builds a relay over an existing channel.
func NewAMQPRelayWithPublisher(exchange string, publisher Publisher, logger *zap.Logger) *AMQPRelay {
	return &AMQPRelay{exchange: exchange, channel: publisher, logger: logger}
}

func (r *AMQPRelay) connect() error {
	conn, err := amqp.Dial(r.url)
	if err != nil {
		return fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(r.exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declare exchange: %w", err)
	}
	r.conn = conn
	r.channel = ch
	return nil
}

func (r *AMQPRelay) ensureConnection() error {
	if r.url == "" || (r.conn != nil && !r.conn.IsClosed()) {
		return nil
	}
	r.logger.Warn("amqp connection lost; reconnecting")
	return r.connect()
}

// Register subscribes the relay to every event type.
func (r *AMQPRelay) Register(dispatcher Dispatcher) {
	for _, t := range AllEventTypes {
		dispatcher.Subscribe(t, r.Handle)
	}
}

// Handle publishes one event as persistent JSON.
func (r *AMQPRelay) Handle(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensureConnection(); err != nil {
		return err
	}
	if r.channel == nil {
		return errors.New("amqp channel not available")
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	err = r.channel.PublishWithContext(ctx, r.exchange, string(event.Type), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Timestamp:    event.Timestamp,
		Type:         string(event.Type),
		Body:         body,
	})
	if err != nil {
		r.logger.Warn("amqp publish failed", zap.String("event_type", string(event.Type)), zap.Error(err))
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Close shuts the channel and connection down.
func (r *AMQPRelay) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ch, ok := r.channel.(*amqp.Channel); ok && ch != nil {
		_ = ch.Close()
	}
	if r.conn != nil {
		_ = r.conn.Close()
	}
	r.channel = nil
	r.conn = nil
}

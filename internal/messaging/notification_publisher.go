package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"story-server/shared/interfaces"
	"story-server/shared/models"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// ExchangeNotificationEvents - fanout exchange, куда уходят события о новых уведомлениях.
const ExchangeNotificationEvents = "notification_events"

// RabbitMQNotificationPublisher публикует NotificationEvent в RabbitMQ.
type RabbitMQNotificationPublisher struct {
	mu     sync.Mutex // amqp091.Channel не потокобезопасен для публикации
	ch     *amqp091.Channel
	logger *zap.Logger
}

var _ interfaces.NotificationEventPublisher = (*RabbitMQNotificationPublisher)(nil)

// NewRabbitMQNotificationPublisher открывает канал и объявляет durable fanout exchange.
func NewRabbitMQNotificationPublisher(conn *amqp091.Connection, logger *zap.Logger) (*RabbitMQNotificationPublisher, error) {
	if conn == nil {
		return nil, fmt.Errorf("rabbitmq connection is nil")
	}
	log := logger.Named("NotificationPublisher")

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		ExchangeNotificationEvents, // name
		"fanout",                   // type
		true,                       // durable
		false,                      // auto-deleted
		false,                      // internal
		false,                      // no-wait
		nil,                        // arguments
	)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("failed to declare exchange '%s': %w", ExchangeNotificationEvents, err)
	}

	log.Info("Notification exchange declared", zap.String("exchange", ExchangeNotificationEvents))
	return &RabbitMQNotificationPublisher{ch: ch, logger: log}, nil
}

// PublishNotificationEvent публикует событие. Ошибка возвращается вызывающему,
// который решает, критична ли она.
func (p *RabbitMQNotificationPublisher) PublishNotificationEvent(ctx context.Context, event models.NotificationEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal notification event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.PublishWithContext(ctx,
		ExchangeNotificationEvents, // exchange
		"",                         // routing key (не используется для fanout)
		false,                      // mandatory
		false,                      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    uuid.NewString(),
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		p.logger.Error("Failed to publish notification event",
			zap.String("notificationID", event.NotificationID), zap.Error(err))
		return fmt.Errorf("failed to publish notification event: %w", err)
	}
	p.logger.Debug("Notification event published", zap.String("notificationID", event.NotificationID))
	return nil
}

// Close закрывает канал.
func (p *RabbitMQNotificationPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.Close()
}

// NoopNotificationPublisher используется, когда брокер не настроен.
type NoopNotificationPublisher struct{}

var _ interfaces.NotificationEventPublisher = NoopNotificationPublisher{}

func (NoopNotificationPublisher) PublishNotificationEvent(context.Context, models.NotificationEvent) error {
	return nil
}

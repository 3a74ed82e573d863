package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher delivers push events to the notification service.
type Publisher interface {
	PublishNotification(ctx context.Context, event NotificationEventPushModel) error
}

// NotificationPublisher publishes notification events to RabbitMQ
type NotificationPublisher struct {
	conn              *RabbitMQConnection
	declareOnce       sync.Once
	declareErr        error
	messagesPublished atomic.Int64
	messagesFailed    atomic.Int64
	lastPublishTime   atomic.Int64
}

func NewNotificationPublisher(conn *RabbitMQConnection) *NotificationPublisher {
	p := &NotificationPublisher{conn: conn}
	p.lastPublishTime.Store(time.Now().UnixNano())
	return p
}

func (p *NotificationPublisher) declareQueue() error {
	p.declareOnce.Do(func() {
		_, p.declareErr = p.conn.Channel.QueueDeclare(
			PushNotiQueue, // queue name
			true,          // durable
			false,         // delete when unused
			false,         // exclusive
			false,         // no-wait
			nil,           // arguments
		)
	})
	return p.declareErr
}

func (p *NotificationPublisher) PublishNotification(ctx context.Context, event NotificationEventPushModel) error {
	if err := p.declareQueue(); err != nil {
		p.messagesFailed.Add(1)
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.messagesFailed.Add(1)
		return fmt.Errorf("failed to marshal notification event: %w", err)
	}

	err = p.conn.Channel.PublishWithContext(
		ctx,
		"",            // exchange
		PushNotiQueue, // routing key (queue name)
		false,         // mandatory
		false,         // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		p.messagesFailed.Add(1)
		return fmt.Errorf("failed to publish notification event: %w", err)
	}

	p.messagesPublished.Add(1)
	p.lastPublishTime.Store(time.Now().UnixNano())

	slog.Info("Notification event published",
		"queue", PushNotiQueue,
		"title", event.Title,
		"user_count", len(event.LstUserIds),
	)
	return nil
}

func (p *NotificationPublisher) GetMetrics() map[string]any {
	return map[string]any{
		"messages_published": p.messagesPublished.Load(),
		"messages_failed":    p.messagesFailed.Load(),
		"last_publish_time":  time.Unix(0, p.lastPublishTime.Load()),
		"queue":              PushNotiQueue,
	}
}

func (p *NotificationPublisher) HealthCheck() PublisherHealthStatus {
	isHealthy := p.conn != nil && p.conn.Connection != nil && !p.conn.Connection.IsClosed()

	return PublisherHealthStatus{
		IsHealthy:         isHealthy,
		MessagesPublished: p.messagesPublished.Load(),
		MessagesFailed:    p.messagesFailed.Load(),
		LastPublishTime:   time.Unix(0, p.lastPublishTime.Load()),
		Queue:             PushNotiQueue,
	}
}

type PublisherHealthStatus struct {
	IsHealthy         bool      `json:"is_healthy"`
	MessagesPublished int64     `json:"messages_published"`
	MessagesFailed    int64     `json:"messages_failed"`
	LastPublishTime   time.Time `json:"last_publish_time"`
	Queue             string    `json:"queue"`
}

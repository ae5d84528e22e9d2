// Package event publishes interview lifecycle events to a RabbitMQ topic
// exchange so downstream consumers (analytics, notifications) can react to
// completed sessions without coupling to the interview service.
package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/kairos-interview/backend/internal/domain/interview"
)

// Routing keys, one per event type.
const (
	SessionCompleted = "interview.session.completed"
	ResumeProcessed  = "interview.resume.processed"
)

// Publisher emits events to a topic exchange. A nil Publisher is valid and
// discards everything, so callers never need to branch on whether eventing
// is configured.
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewPublisher(amqpURI, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(amqpURI)
	if err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %q: %w", exchange, err)
	}
	return &Publisher{conn: conn, channel: ch, exchange: exchange}, nil
}

type envelope struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

// Publish sends one event using its type as the routing key.
func (p *Publisher) Publish(ctx context.Context, eventType string, payload any) error {
	if p == nil {
		return nil
	}
	body, err := json.Marshal(envelope{
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	})
	if err != nil {
		return fmt.Errorf("encode event %q: %w", eventType, err)
	}
	return p.channel.PublishWithContext(ctx, p.exchange, eventType, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

// PublishSessionCompleted emits the end-of-session summary.
func (p *Publisher) PublishSessionCompleted(ctx context.Context, summary *interview.Summary) error {
	return p.Publish(ctx, SessionCompleted, summary)
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

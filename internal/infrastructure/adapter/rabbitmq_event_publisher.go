package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hotel-booking/hotel-booking-system/internal/domain/search"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQEventPublisher pushes search analytics events onto a durable queue.
// Publishing is best effort from the caller's point of view: the orchestrator
// fires it off the request path and only logs failures.
type RabbitMQEventPublisher struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	queue  string
	logger *slog.Logger
}

func NewRabbitMQEventPublisher(url, queue string, logger *slog.Logger) (*RabbitMQEventPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to enable publish confirms: %w", err)
	}

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	return &RabbitMQEventPublisher{
		conn:   conn,
		ch:     ch,
		queue:  queue,
		logger: logger,
	}, nil
}

func (p *RabbitMQEventPublisher) PublishSearchPerformed(ctx context.Context, event search.PerformedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal search event: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Timestamp:    time.Now(),
		Type:         "hotel_search_performed",
	}
	if err := p.ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		return fmt.Errorf("failed to publish search event %s: %w", event.ID, err)
	}

	p.logger.Debug("Search event published", "event_id", event.ID, "results", event.ResultsCount)
	return nil
}

func (p *RabbitMQEventPublisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// NopEventPublisher stands in when analytics is disabled.
type NopEventPublisher struct{}

func (NopEventPublisher) PublishSearchPerformed(context.Context, search.PerformedEvent) error {
	return nil
}

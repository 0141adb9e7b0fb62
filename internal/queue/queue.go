// Package queue wraps the RabbitMQ transport used between the fetch
// layer and the ingestion coordinator.
package queue

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Queue is a durable RabbitMQ queue handle with manual acknowledgment
// and a prefetch of one: a message is fully processed before the next
// one is delivered.
type Queue struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	name   string
	logger *zap.Logger
}

// Connect dials the broker, declares the durable queue and sets QoS.
func Connect(url, name string, logger *zap.Logger) (*Queue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}

	if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare queue %q: %w", name, err)
	}

	if err := ch.Qos(1, 0, false); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set qos: %w", err)
	}

	logger.Info("connected to queue", zap.String("queue", name))

	return &Queue{conn: conn, ch: ch, name: name, logger: logger}, nil
}

// Consume starts delivering messages. Acknowledgment is manual and per
// message; the caller acks or nacks every delivery.
func (q *Queue) Consume() (<-chan amqp.Delivery, error) {
	deliveries, err := q.ch.Consume(q.name, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("consume %q: %w", q.name, err)
	}
	return deliveries, nil
}

// Publish sends a persistent JSON message to the queue.
func (q *Queue) Publish(ctx context.Context, body []byte) error {
	err := q.ch.PublishWithContext(ctx, "", q.name, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish to %q: %w", q.name, err)
	}
	return nil
}

func (q *Queue) Close() {
	if q.ch != nil {
		q.ch.Close()
	}
	if q.conn != nil && !q.conn.IsClosed() {
		q.conn.Close()
	}
}

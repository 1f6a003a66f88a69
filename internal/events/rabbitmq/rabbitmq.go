package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"pairing_service/internal/models"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Client publishes device-bound events to a durable queue so downstream
// consumers (device provisioning, ops tooling) can react to re-pairings.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
}

func New(urlForConn string, queueName string) (*Client, error) {
	const op = "events.rabbitmq.New"

	conn, err := amqp.Dial(urlForConn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	q, err := ch.QueueDeclare(
		queueName, true, false, false, false, nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Client{
		conn:    conn,
		channel: ch,
		queue:   q,
	}, nil
}

func (c *Client) PublishDeviceBound(ctx context.Context, event models.DeviceBoundEvent) error {
	const op = "events.rabbitmq.PublishDeviceBound"

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = c.channel.PublishWithContext(
		ctx,
		"",
		c.queue.Name,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *Client) Close() {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		c.conn.Close()
	}
}

package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"arb-dashboard/internal/model"
)

// UsagePublisher emits one event per completed chat turn.
type UsagePublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewUsagePublisher(conn *amqp.Connection, queueName string) *UsagePublisher {
	return &UsagePublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *UsagePublisher) PublishUsage(ctx context.Context, event model.UsageEvent) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	if err := DeclareQueue(ch, p.queueName); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal usage event failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
		},
	); err != nil {
		return fmt.Errorf("publish usage event failed: %w", err)
	}
	return nil
}

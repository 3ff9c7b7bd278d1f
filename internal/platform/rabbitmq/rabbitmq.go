package rabbitmq

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// New dials the broker and makes sure a channel can be opened within a few
// seconds before handing the connection out.
func New(ctx context.Context, url string) (*amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq failed: %w", err)
	}

	checkCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		ch, chErr := conn.Channel()
		if chErr == nil {
			chErr = ch.Close()
		}
		done <- chErr
	}()

	select {
	case <-checkCtx.Done():
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq health check timeout: %w", checkCtx.Err())
	case err := <-done:
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("open rabbitmq channel failed: %w", err)
		}
		return conn, nil
	}
}

// DeclareQueue declares the durable queue both the publisher and the
// consumer use.
func DeclareQueue(ch *amqp.Channel, name string) error {
	_, err := ch.QueueDeclare(
		name,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue %s failed: %w", name, err)
	}
	return nil
}

package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"arb-dashboard/internal/model"
	"arb-dashboard/internal/pkg/logger"
	"arb-dashboard/internal/platform/rabbitmq"
)

// UsageLogWorker drains the chat usage queue into the structured log.
type UsageLogWorker struct {
	conn      *amqp.Connection
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewUsageLogWorker(conn *amqp.Connection, queueName string) *UsageLogWorker {
	return &UsageLogWorker{
		conn:      conn,
		queueName: queueName,
	}
}

func (w *UsageLogWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	if err := rabbitmq.DeclareQueue(ch, w.queueName); err != nil {
		_ = ch.Close()
		cancel()
		return err
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}

				var event model.UsageEvent
				if err := json.Unmarshal(d.Body, &event); err != nil {
					logger.Errorf("usage worker decode event failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				logUsage(event)
				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *UsageLogWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}

func logUsage(event model.UsageEvent) {
	fields := logrus.Fields{
		"session_id":  event.SessionID,
		"response_id": event.ResponseID.String(),
		"user":        event.UserEmail,
	}
	if u := event.Usage; u.PromptTokens != nil {
		fields["prompt_tokens"] = *u.PromptTokens
	}
	if u := event.Usage; u.CompletionTokens != nil {
		fields["completion_tokens"] = *u.CompletionTokens
	}
	if u := event.Usage; u.TotalTokens != nil {
		fields["total_tokens"] = *u.TotalTokens
	}
	if u := event.Usage; u.TotalCost != nil {
		fields["total_cost"] = *u.TotalCost
	}
	logger.WithFields(fields).Info("chat turn usage")
}

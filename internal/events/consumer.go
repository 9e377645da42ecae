package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler processes a single event.
type Handler func(ctx context.Context, ev *Event) error

// Consumer drains the events queue. The daemon runs one with LogActivity to
// produce an activity trail; deployments can attach their own handler.
type Consumer struct {
	conn    *Connection
	handler Handler
	workers int
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewConsumer creates a consumer with the given number of workers.
func NewConsumer(conn *Connection, handler Handler, workers int) *Consumer {
	if workers <= 0 {
		workers = 1
	}
	return &Consumer{conn: conn, handler: handler, workers: workers}
}

// Start begins consuming in background goroutines.
func (c *Consumer) Start(ctx context.Context) error {
	ctx, c.cancel = context.WithCancel(ctx)

	ch := c.conn.Channel()
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set QoS: %w", err)
	}

	msgs, err := ch.Consume(
		QueueName,
		"",    // consumer tag (auto-generated)
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.Info("starting event consumer", "workers", c.workers)

	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go c.worker(ctx, i, msgs)
	}
	return nil
}

func (c *Consumer) worker(ctx context.Context, id int, msgs <-chan amqp.Delivery) {
	defer c.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			c.process(ctx, id, msg)
		}
	}
}

func (c *Consumer) process(ctx context.Context, workerID int, msg amqp.Delivery) {
	var ev Event
	if err := json.Unmarshal(msg.Body, &ev); err != nil {
		slog.Error("malformed event message", "worker_id", workerID, "error", err)
		// Reject without requeue; a malformed message never gets better.
		_ = msg.Reject(false)
		return
	}

	if err := c.handler(ctx, &ev); err != nil {
		slog.Error("event handler failed",
			"worker_id", workerID,
			"event_id", ev.ID,
			"kind", ev.Kind,
			"error", err,
		)
		_ = msg.Nack(false, true)
		return
	}

	_ = msg.Ack(false)
}

// Stop cancels the workers and waits for them to finish.
func (c *Consumer) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
}

// LogActivity is the default event handler: it writes a structured activity
// line per event.
func LogActivity(_ context.Context, ev *Event) error {
	slog.Info("activity",
		"kind", ev.Kind,
		"actor_id", ev.ActorID,
		"entity_id", ev.EntityID,
		"occurred_at", ev.OccurredAt,
	)
	return nil
}

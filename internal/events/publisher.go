package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/retry"
	"github.com/google/uuid"
)

// Publisher emits lifecycle events. Publishing is best-effort: a broker
// outage must never fail the request that triggered the event, so Emit logs
// failures instead of returning them. A nil *Publisher is a no-op, which is
// how the daemon runs when no broker is configured.
type Publisher struct {
	conn    *Connection
	breaker circuitbreaker.CircuitBreaker[struct{}]
	retrier retry.Retry[struct{}]
}

// NewPublisher wraps a broker connection with retry and a circuit breaker.
func NewPublisher(conn *Connection) *Publisher {
	return &Publisher{
		conn: conn,
		breaker: circuitbreaker.New[struct{}](circuitbreaker.Config{
			MaxRequests: 2,
			Interval:    10 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts circuitbreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			OnStateChange: func(from, to circuitbreaker.State) {
				slog.Warn("event publisher circuit breaker state change",
					"from", from.String(), "to", to.String())
			},
		}),
		retrier: retry.New[struct{}](retry.Config{
			MaxAttempts:   3,
			InitialDelay:  100 * time.Millisecond,
			MaxDelay:      2 * time.Second,
			Multiplier:    2.0,
			BackoffPolicy: retry.BackoffExponential,
			Jitter:        true,
		}),
	}
}

// Emit publishes an event of the given kind. Safe on a nil receiver.
func (p *Publisher) Emit(ctx context.Context, kind string, actorID, entityID uuid.UUID, data any) {
	if p == nil {
		return
	}

	ev, err := NewEvent(kind, actorID, entityID, data)
	if err != nil {
		slog.Error("failed to build event", "kind", kind, "error", err)
		return
	}

	_, err = p.breaker.Execute(ctx, func(ctx context.Context) (struct{}, error) {
		return p.retrier.Do(ctx, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, p.conn.PublishJSON(ctx, ev)
		})
	})
	if err != nil {
		slog.Error("failed to publish event",
			"kind", kind,
			"entity_id", entityID,
			"error", err,
		)
		return
	}

	slog.Debug("published event", "kind", kind, "entity_id", entityID)
}

package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// QueueName is the single durable queue lifecycle events are published to.
const QueueName = "taskpilot.events"

// Event kinds.
const (
	UserRegistered = "user.registered"

	ProjectCreated = "project.created"
	ProjectUpdated = "project.updated"
	ProjectDeleted = "project.deleted"

	TaskCreated = "task.created"
	TaskUpdated = "task.updated"
	TaskDeleted = "task.deleted"
)

// Event is the envelope every published message uses.
type Event struct {
	ID         uuid.UUID       `json:"id"`
	Kind       string          `json:"kind"`
	ActorID    uuid.UUID       `json:"actor_id"`
	EntityID   uuid.UUID       `json:"entity_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data,omitempty"`
}

// NewEvent builds an envelope for the given kind. data may be nil.
func NewEvent(kind string, actorID, entityID uuid.UUID, data any) (*Event, error) {
	ev := &Event{
		ID:         uuid.New(),
		Kind:       kind,
		ActorID:    actorID,
		EntityID:   entityID,
		OccurredAt: time.Now(),
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		ev.Data = raw
	}
	return ev, nil
}

package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func TestNewEvent(t *testing.T) {
	actor := uuid.New()
	entity := uuid.New()

	ev, err := NewEvent(TaskCreated, actor, entity, map[string]string{"title": "T1"})
	if err != nil {
		t.Fatalf("NewEvent() error = %v", err)
	}

	if ev.Kind != TaskCreated {
		t.Errorf("Kind = %q; want %q", ev.Kind, TaskCreated)
	}
	if ev.ActorID != actor || ev.EntityID != entity {
		t.Error("actor/entity IDs not carried through")
	}
	if ev.ID == uuid.Nil {
		t.Error("event ID should be assigned")
	}
	if ev.OccurredAt.IsZero() {
		t.Error("OccurredAt should be stamped")
	}

	var data map[string]string
	if err := json.Unmarshal(ev.Data, &data); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if data["title"] != "T1" {
		t.Errorf("data[title] = %q; want T1", data["title"])
	}
}

func TestNewEvent_NilData(t *testing.T) {
	ev, err := NewEvent(ProjectDeleted, uuid.New(), uuid.New(), nil)
	if err != nil {
		t.Fatalf("NewEvent() error = %v", err)
	}
	if ev.Data != nil {
		t.Errorf("Data = %s; want nil", ev.Data)
	}
}

func TestEvent_RoundTrip(t *testing.T) {
	ev, err := NewEvent(UserRegistered, uuid.New(), uuid.New(), nil)
	if err != nil {
		t.Fatalf("NewEvent() error = %v", err)
	}

	body, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded Event
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.ID != ev.ID || decoded.Kind != ev.Kind {
		t.Error("envelope did not survive the wire")
	}
}

func TestPublisher_NilIsNoop(t *testing.T) {
	var p *Publisher

	// Must not panic; a daemon without a broker emits into the void.
	p.Emit(context.Background(), TaskCreated, uuid.New(), uuid.New(), nil)
}

func TestLogActivity(t *testing.T) {
	ev, _ := NewEvent(TaskUpdated, uuid.New(), uuid.New(), nil)
	if err := LogActivity(context.Background(), ev); err != nil {
		t.Errorf("LogActivity() error = %v", err)
	}
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In progress"
	StatusCompleted  Status = "Completed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Task is a unit of work inside a project. ProjectID must reference a
// project owned by the same OwnerID at creation time.
type Task struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	ProjectID   uuid.UUID
	Title       string
	Description string
	Status      Status
	AssignedTo  string
	DueDate     time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the fields required for persistence.
func (t *Task) Validate() error {
	switch {
	case t.Title == "":
		return ErrTaskTitleRequired
	case t.Description == "":
		return ErrTaskDescriptionRequired
	case t.AssignedTo == "":
		return ErrTaskAssigneeRequired
	case t.DueDate.IsZero():
		return ErrTaskDueDateRequired
	case !t.Status.Valid():
		return ErrTaskStatusInvalid
	}
	return nil
}

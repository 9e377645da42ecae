package domain

import (
	"errors"
	"testing"
	"time"
)

func validTask() Task {
	return Task{
		Title:       "t",
		Description: "d",
		Status:      StatusPending,
		AssignedTo:  "a",
		DueDate:     time.Now(),
	}
}

func TestStatus_Valid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusInProgress, StatusCompleted} {
		if !s.Valid() {
			t.Errorf("Status(%q).Valid() = false; want true", s)
		}
	}
	for _, s := range []Status{"", "pending", "Done"} {
		if s.Valid() {
			t.Errorf("Status(%q).Valid() = true; want false", s)
		}
	}
}

func TestTask_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Task)
		wantErr error
	}{
		{"valid", func(*Task) {}, nil},
		{"missing title", func(tk *Task) { tk.Title = "" }, ErrTaskTitleRequired},
		{"missing description", func(tk *Task) { tk.Description = "" }, ErrTaskDescriptionRequired},
		{"missing assignee", func(tk *Task) { tk.AssignedTo = "" }, ErrTaskAssigneeRequired},
		{"zero due date", func(tk *Task) { tk.DueDate = time.Time{} }, ErrTaskDueDateRequired},
		{"unknown status", func(tk *Task) { tk.Status = "Blocked" }, ErrTaskStatusInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := validTask()
			tt.mutate(&task)

			err := task.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v; want %v", err, tt.wantErr)
			}
		})
	}
}

func TestProject_Validate(t *testing.T) {
	p := Project{Name: "ok"}
	if err := p.Validate(); err != nil {
		t.Errorf("Validate() = %v; want nil", err)
	}

	p.Name = ""
	if err := p.Validate(); !errors.Is(err, ErrProjectNameRequired) {
		t.Errorf("Validate() = %v; want ErrProjectNameRequired", err)
	}
}

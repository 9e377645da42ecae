package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/taskpilot/taskpilot/internal/domain"
	"github.com/taskpilot/taskpilot/internal/task"
)

// TaskHandler handles task CRUD endpoints.
type TaskHandler struct {
	tasks *task.Service
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(service *task.Service) *TaskHandler {
	return &TaskHandler{tasks: service}
}

// TaskResponse is the client-visible projection of a task.
type TaskResponse struct {
	ID          string `json:"id"`
	ProjectID   string `json:"project_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	AssignedTo  string `json:"assigned_to"`
	DueDate     string `json:"due_date"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func toTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID.String(),
		ProjectID:   t.ProjectID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		AssignedTo:  t.AssignedTo,
		DueDate:     t.DueDate.Format(time.RFC3339),
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.Format(time.RFC3339),
	}
}

// parseDueDate accepts a bare date or a full RFC 3339 timestamp.
func parseDueDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// List returns all of the caller's tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFrom(r.Context())

	tasks, err := h.tasks.List(r.Context(), identity.UserID)
	if err != nil {
		internalError(w, r, "failed to list tasks", err)
		return
	}

	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": out})
}

// ListByProject returns the caller's tasks inside the named project.
func (h *TaskHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFrom(r.Context())
	name := r.PathValue("projectName")

	tasks, proj, err := h.tasks.ListByProjectName(r.Context(), identity.UserID, name)
	if errors.Is(err, domain.ErrProjectNotFound) {
		notFound(w, r, "project")
		return
	}
	if err != nil {
		internalError(w, r, "failed to list tasks", err)
		return
	}

	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"project": map[string]string{"id": proj.ID.String(), "name": proj.Name},
		"tasks":   out,
	})
}

// CreateTaskRequest is the request body for task creation. Exactly one of
// project_id and project_name should identify the target project; when both
// are present project_id wins.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	AssignedTo  string `json:"assigned_to"`
	DueDate     string `json:"due_date"`
	ProjectID   string `json:"project_id"`
	ProjectName string `json:"project_name"`
}

// Create creates a task inside a project the caller owns.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFrom(r.Context())

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}

	if req.ProjectID == "" && req.ProjectName == "" {
		badRequest(w, r, "project_id or project_name is required")
		return
	}

	var projectID uuid.UUID
	if req.ProjectID != "" {
		var err error
		projectID, err = uuid.Parse(req.ProjectID)
		if err != nil {
			badRequest(w, r, "invalid project id")
			return
		}
	}

	var dueDate time.Time
	if req.DueDate != "" {
		var err error
		dueDate, err = parseDueDate(req.DueDate)
		if err != nil {
			badRequest(w, r, "invalid due date, expected YYYY-MM-DD or RFC 3339")
			return
		}
	}

	created, proj, err := h.tasks.Create(r.Context(), task.CreateRequest{
		OwnerID:     identity.UserID,
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.Status(req.Status),
		AssignedTo:  req.AssignedTo,
		DueDate:     dueDate,
		ProjectID:   projectID,
		ProjectName: req.ProjectName,
	})
	if err != nil {
		h.writeTaskError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"task":    toTaskResponse(created),
		"project": map[string]string{"id": proj.ID.String(), "name": proj.Name},
	})
}

// Get returns a task by ID.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		badRequest(w, r, "invalid task id")
		return
	}

	t, err := h.tasks.Get(r.Context(), id)
	if errors.Is(err, domain.ErrTaskNotFound) {
		notFound(w, r, "task")
		return
	}
	if err != nil {
		internalError(w, r, "failed to get task", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"task": toTaskResponse(t)})
}

// UpdateTaskRequest carries partial fields; absent fields stay unchanged.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	AssignedTo  *string `json:"assigned_to"`
	DueDate     *string `json:"due_date"`
}

// Update applies partial fields to a task the caller owns.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFrom(r.Context())

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		badRequest(w, r, "invalid task id")
		return
	}

	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}

	update := task.UpdateRequest{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
	}
	if req.Status != nil {
		status := domain.Status(*req.Status)
		update.Status = &status
	}
	if req.DueDate != nil {
		due, err := parseDueDate(*req.DueDate)
		if err != nil {
			badRequest(w, r, "invalid due date, expected YYYY-MM-DD or RFC 3339")
			return
		}
		update.DueDate = &due
	}

	t, err := h.tasks.Update(r.Context(), id, identity.UserID, update)
	if err != nil {
		h.writeTaskError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"task": toTaskResponse(t)})
}

// Delete removes a task the caller owns.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFrom(r.Context())

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		badRequest(w, r, "invalid task id")
		return
	}

	err = h.tasks.Delete(r.Context(), id, identity.UserID)
	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		notFound(w, r, "task")
	case errors.Is(err, domain.ErrNotOwner):
		forbidden(w, r, "you do not own this task")
	case err != nil:
		internalError(w, r, "failed to delete task", err)
	default:
		writeJSON(w, http.StatusOK, map[string]string{"message": "task deleted successfully"})
	}
}

// writeTaskError maps service errors for create and update to responses.
func (h *TaskHandler) writeTaskError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrProjectNotFound):
		notFound(w, r, "project")
	case errors.Is(err, domain.ErrTaskNotFound):
		notFound(w, r, "task")
	case errors.Is(err, domain.ErrNotOwner):
		forbidden(w, r, "you do not own this task")
	case errors.Is(err, domain.ErrTaskTitleRequired),
		errors.Is(err, domain.ErrTaskDescriptionRequired),
		errors.Is(err, domain.ErrTaskAssigneeRequired),
		errors.Is(err, domain.ErrTaskDueDateRequired),
		errors.Is(err, domain.ErrTaskStatusInvalid):
		badRequest(w, r, err.Error())
	default:
		internalError(w, r, "task operation failed", err)
	}
}

package task

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/taskpilot/taskpilot/internal/domain"
	"github.com/taskpilot/taskpilot/internal/events"
)

// Repository defines task persistence.
type Repository interface {
	// CreateInOwnedProject inserts the task only if task.ProjectID refers to
	// a project owned by task.OwnerID, in a single conditional statement.
	// Returns domain.ErrProjectNotFound otherwise.
	CreateInOwnedProject(ctx context.Context, task *domain.Task) error
	// GetByID returns domain.ErrTaskNotFound when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error)
	ListByProject(ctx context.Context, ownerID, projectID uuid.UUID) ([]*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProjectResolver is the slice of the project repository the task service
// needs to resolve project references.
type ProjectResolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	GetByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (*domain.Project, error)
}

// Service implements ownership-checked task operations.
type Service struct {
	repo     Repository
	projects ProjectResolver
	events   *events.Publisher
}

// NewService creates a task service.
func NewService(repo Repository, projects ProjectResolver, publisher *events.Publisher) *Service {
	return &Service{repo: repo, projects: projects, events: publisher}
}

// CreateRequest contains the fields for a new task. Exactly one of
// ProjectID and ProjectName should be set; when both are, ProjectID wins.
type CreateRequest struct {
	OwnerID     uuid.UUID
	Title       string
	Description string
	Status      domain.Status
	AssignedTo  string
	DueDate     time.Time
	ProjectID   uuid.UUID
	ProjectName string
}

// Create resolves the target project, stamps the caller as owner and
// persists the task. A project that exists but belongs to another user is
// reported exactly like a missing one.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.Task, *domain.Project, error) {
	project, err := s.resolveProject(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	status := req.Status
	if status == "" {
		status = domain.StatusPending
	}

	now := time.Now()
	task := &domain.Task{
		ID:          uuid.New(),
		OwnerID:     req.OwnerID,
		ProjectID:   project.ID,
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		AssignedTo:  req.AssignedTo,
		DueDate:     req.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := task.Validate(); err != nil {
		return nil, nil, err
	}

	// The insert re-checks project ownership in the same statement, so a
	// concurrent project delete cannot slip a task into a dead project.
	if err := s.repo.CreateInOwnedProject(ctx, task); err != nil {
		return nil, nil, err
	}

	s.events.Emit(ctx, events.TaskCreated, req.OwnerID, task.ID,
		map[string]string{"title": task.Title, "project": project.Name})
	return task, project, nil
}

func (s *Service) resolveProject(ctx context.Context, req CreateRequest) (*domain.Project, error) {
	if req.ProjectID != uuid.Nil {
		project, err := s.projects.GetByID(ctx, req.ProjectID)
		if err != nil {
			return nil, err
		}
		if project.OwnerID != req.OwnerID {
			return nil, domain.ErrProjectNotFound
		}
		return project, nil
	}
	return s.projects.GetByOwnerAndName(ctx, req.OwnerID, req.ProjectName)
}

// List returns all of the caller's tasks.
func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// ListByProjectName returns the caller's tasks inside the named project.
func (s *Service) ListByProjectName(ctx context.Context, ownerID uuid.UUID, name string) ([]*domain.Task, *domain.Project, error) {
	project, err := s.projects.GetByOwnerAndName(ctx, ownerID, name)
	if err != nil {
		return nil, nil, err
	}
	tasks, err := s.repo.ListByProject(ctx, ownerID, project.ID)
	if err != nil {
		return nil, nil, err
	}
	return tasks, project, nil
}

// Get returns a task by ID. Read access is not owner-restricted.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateRequest carries partial fields; nil means "leave unchanged".
type UpdateRequest struct {
	Title       *string
	Description *string
	Status      *domain.Status
	AssignedTo  *string
	DueDate     *time.Time
}

// Update applies partial fields after re-checking ownership and re-validates
// the merged record.
func (s *Service) Update(ctx context.Context, id, callerID uuid.UUID, req UpdateRequest) (*domain.Task, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.OwnerID != callerID {
		return nil, domain.ErrNotOwner
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.AssignedTo != nil {
		task.AssignedTo = *req.AssignedTo
	}
	if req.DueDate != nil {
		task.DueDate = *req.DueDate
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}
	task.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}

	s.events.Emit(ctx, events.TaskUpdated, callerID, task.ID, nil)
	return task, nil
}

// Delete removes a task after re-checking ownership.
func (s *Service) Delete(ctx context.Context, id, callerID uuid.UUID) error {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if task.OwnerID != callerID {
		return domain.ErrNotOwner
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.events.Emit(ctx, events.TaskDeleted, callerID, id, nil)
	return nil
}

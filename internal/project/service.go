package project

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/taskpilot/taskpilot/internal/domain"
	"github.com/taskpilot/taskpilot/internal/events"
)

// Repository defines project persistence.
type Repository interface {
	Create(ctx context.Context, project *domain.Project) error
	// GetByID returns domain.ErrProjectNotFound when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	// GetByOwnerAndName resolves a project by its owner and exact name.
	GetByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (*domain.Project, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Project, error)
	Update(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteWithTasks removes the project and its tasks in one transaction.
	DeleteWithTasks(ctx context.Context, id uuid.UUID) error
}

// Service implements ownership-checked project operations. Reads are open
// to any authenticated caller; mutation requires ownership.
type Service struct {
	repo    Repository
	events  *events.Publisher
	cascade bool
}

// NewService creates a project service. cascade controls whether deleting a
// project also deletes its tasks.
func NewService(repo Repository, publisher *events.Publisher, cascade bool) *Service {
	return &Service{repo: repo, events: publisher, cascade: cascade}
}

// CreateRequest contains the fields for a new project.
type CreateRequest struct {
	OwnerID     uuid.UUID
	Name        string
	Description string
}

// Create stamps the caller as owner and persists the project.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.Project, error) {
	now := time.Now()
	project := &domain.Project{
		ID:          uuid.New(),
		OwnerID:     req.OwnerID,
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := project.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.events.Emit(ctx, events.ProjectCreated, req.OwnerID, project.ID,
		map[string]string{"name": project.Name})
	return project, nil
}

// List returns the caller's projects.
func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]*domain.Project, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// Get returns a project by ID. Read access is not owner-restricted.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateRequest carries partial fields; nil means "leave unchanged".
type UpdateRequest struct {
	Name        *string
	Description *string
}

// Update applies partial fields after re-checking ownership.
func (s *Service) Update(ctx context.Context, id, callerID uuid.UUID, req UpdateRequest) (*domain.Project, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project.OwnerID != callerID {
		return nil, domain.ErrNotOwner
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if err := project.Validate(); err != nil {
		return nil, err
	}
	project.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, project); err != nil {
		return nil, err
	}

	s.events.Emit(ctx, events.ProjectUpdated, callerID, project.ID, nil)
	return project, nil
}

// Delete removes a project after re-checking ownership. When cascade is on,
// the project's tasks go with it; otherwise they are left orphaned, which
// was the recorded behavior before the policy became configurable.
func (s *Service) Delete(ctx context.Context, id, callerID uuid.UUID) error {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if project.OwnerID != callerID {
		return domain.ErrNotOwner
	}

	if s.cascade {
		err = s.repo.DeleteWithTasks(ctx, id)
	} else {
		err = s.repo.Delete(ctx, id)
	}
	if err != nil {
		return err
	}

	s.events.Emit(ctx, events.ProjectDeleted, callerID, id, nil)
	return nil
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/taskpilot/taskpilot/internal/domain"
	"github.com/taskpilot/taskpilot/internal/project"
)

// ProjectHandler handles project CRUD endpoints.
type ProjectHandler struct {
	projects *project.Service
}

// NewProjectHandler creates a new project handler.
func NewProjectHandler(service *project.Service) *ProjectHandler {
	return &ProjectHandler{projects: service}
}

// ProjectResponse is the client-visible projection of a project.
type ProjectResponse struct {
	ID          string `json:"id"`
	OwnerID     string `json:"owner_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func toProjectResponse(p *domain.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID.String(),
		OwnerID:     p.OwnerID.String(),
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
}

// List returns the caller's projects.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFrom(r.Context())

	projects, err := h.projects.List(r.Context(), identity.UserID)
	if err != nil {
		internalError(w, r, "failed to list projects", err)
		return
	}

	out := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProjectResponse(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": out})
}

// CreateProjectRequest is the request body for project creation.
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Create creates a project owned by the caller.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFrom(r.Context())

	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}

	p, err := h.projects.Create(r.Context(), project.CreateRequest{
		OwnerID:     identity.UserID,
		Name:        req.Name,
		Description: req.Description,
	})
	if errors.Is(err, domain.ErrProjectNameRequired) {
		badRequest(w, r, "project name is required")
		return
	}
	if err != nil {
		internalError(w, r, "failed to create project", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"project": toProjectResponse(p)})
}

// Get returns a project by ID.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		badRequest(w, r, "invalid project id")
		return
	}

	p, err := h.projects.Get(r.Context(), id)
	if errors.Is(err, domain.ErrProjectNotFound) {
		notFound(w, r, "project")
		return
	}
	if err != nil {
		internalError(w, r, "failed to get project", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"project": toProjectResponse(p)})
}

// UpdateProjectRequest carries partial fields; absent fields stay unchanged.
type UpdateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Update applies partial fields to a project the caller owns.
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFrom(r.Context())

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		badRequest(w, r, "invalid project id")
		return
	}

	var req UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}

	p, err := h.projects.Update(r.Context(), id, identity.UserID, project.UpdateRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	switch {
	case errors.Is(err, domain.ErrProjectNotFound):
		notFound(w, r, "project")
	case errors.Is(err, domain.ErrNotOwner):
		forbidden(w, r, "you do not own this project")
	case errors.Is(err, domain.ErrProjectNameRequired):
		badRequest(w, r, "project name is required")
	case err != nil:
		internalError(w, r, "failed to update project", err)
	default:
		writeJSON(w, http.StatusOK, map[string]any{"project": toProjectResponse(p)})
	}
}

// Delete removes a project the caller owns.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFrom(r.Context())

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		badRequest(w, r, "invalid project id")
		return
	}

	err = h.projects.Delete(r.Context(), id, identity.UserID)
	switch {
	case errors.Is(err, domain.ErrProjectNotFound):
		notFound(w, r, "project")
	case errors.Is(err, domain.ErrNotOwner):
		forbidden(w, r, "you do not own this project")
	case err != nil:
		internalError(w, r, "failed to delete project", err)
	default:
		writeJSON(w, http.StatusOK, map[string]string{"message": "project deleted successfully"})
	}
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/taskpilot/taskpilot/internal/domain"
)

// ProjectStore implements project.Repository backed by PostgreSQL.
type ProjectStore struct {
	db *DB
}

// NewProjectStore creates a new Postgres-backed project store.
func NewProjectStore(db *DB) *ProjectStore {
	return &ProjectStore{db: db}
}

func (s *ProjectStore) Create(ctx context.Context, p *domain.Project) error {
	_, err := s.db.Pool.Exec(ctx, `
		INSERT INTO projects (id, owner_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID.String(), p.OwnerID.String(), p.Name, p.Description, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (s *ProjectStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	row := s.db.Pool.QueryRow(ctx, `
		SELECT id, owner_id, name, description, created_at, updated_at
		FROM projects WHERE id = $1`, id.String())
	return scanProject(row)
}

// GetByOwnerAndName resolves the oldest project with that exact name under
// the owner; names are not unique per owner.
func (s *ProjectStore) GetByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (*domain.Project, error) {
	row := s.db.Pool.QueryRow(ctx, `
		SELECT id, owner_id, name, description, created_at, updated_at
		FROM projects WHERE owner_id = $1 AND name = $2
		ORDER BY created_at ASC LIMIT 1`, ownerID.String(), name)
	return scanProject(row)
}

func (s *ProjectStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Project, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT id, owner_id, name, description, created_at, updated_at
		FROM projects WHERE owner_id = $1 ORDER BY updated_at DESC`, ownerID.String())
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}

func (s *ProjectStore) Update(ctx context.Context, p *domain.Project) error {
	tag, err := s.db.Pool.Exec(ctx, `
		UPDATE projects SET name = $1, description = $2, updated_at = $3
		WHERE id = $4`,
		p.Name, p.Description, p.UpdatedAt, p.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func (s *ProjectStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, "DELETE FROM projects WHERE id = $1", id.String())
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

// DeleteWithTasks removes the project and its tasks in one transaction.
func (s *ProjectStore) DeleteWithTasks(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin cascade delete: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM tasks WHERE project_id = $1", id.String()); err != nil {
		return fmt.Errorf("delete project tasks: %w", err)
	}

	tag, err := tx.Exec(ctx, "DELETE FROM projects WHERE id = $1", id.String())
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}

	return tx.Commit(ctx)
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var p domain.Project
	err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description,
		&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan project: %w", err)
	}
	return &p, nil
}

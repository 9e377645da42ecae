package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/taskpilot/taskpilot/internal/domain"
)

// TaskStore implements task.Repository backed by PostgreSQL.
type TaskStore struct {
	db *DB
}

// NewTaskStore creates a new Postgres-backed task store.
func NewTaskStore(db *DB) *TaskStore {
	return &TaskStore{db: db}
}

// CreateInOwnedProject inserts the task only if its project belongs to its
// owner. The ownership check and the insert share one statement, so there
// is no window for the project to disappear in between.
func (s *TaskStore) CreateInOwnedProject(ctx context.Context, t *domain.Task) error {
	tag, err := s.db.Pool.Exec(ctx, `
		INSERT INTO tasks (id, owner_id, project_id, title, description, status,
			assigned_to, due_date, created_at, updated_at)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		WHERE EXISTS (SELECT 1 FROM projects WHERE id = $11 AND owner_id = $12)`,
		t.ID.String(), t.OwnerID.String(), t.ProjectID.String(), t.Title,
		t.Description, string(t.Status), t.AssignedTo, t.DueDate,
		t.CreatedAt, t.UpdatedAt,
		t.ProjectID.String(), t.OwnerID.String(),
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func (s *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	row := s.db.Pool.QueryRow(ctx, `
		SELECT id, owner_id, project_id, title, description, status,
			assigned_to, due_date, created_at, updated_at
		FROM tasks WHERE id = $1`, id.String())

	var t domain.Task
	err := row.Scan(&t.ID, &t.OwnerID, &t.ProjectID, &t.Title, &t.Description,
		&t.Status, &t.AssignedTo, &t.DueDate, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan task: %w", err)
	}
	return &t, nil
}

func (s *TaskStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error) {
	return s.list(ctx, `
		SELECT id, owner_id, project_id, title, description, status,
			assigned_to, due_date, created_at, updated_at
		FROM tasks WHERE owner_id = $1 ORDER BY due_date ASC`, ownerID.String())
}

func (s *TaskStore) ListByProject(ctx context.Context, ownerID, projectID uuid.UUID) ([]*domain.Task, error) {
	return s.list(ctx, `
		SELECT id, owner_id, project_id, title, description, status,
			assigned_to, due_date, created_at, updated_at
		FROM tasks WHERE owner_id = $1 AND project_id = $2 ORDER BY due_date ASC`,
		ownerID.String(), projectID.String())
}

func (s *TaskStore) list(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.ProjectID, &t.Title, &t.Description,
			&t.Status, &t.AssignedTo, &t.DueDate, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, &t)
	}
	return tasks, rows.Err()
}

func (s *TaskStore) Update(ctx context.Context, t *domain.Task) error {
	tag, err := s.db.Pool.Exec(ctx, `
		UPDATE tasks SET title = $1, description = $2, status = $3,
			assigned_to = $4, due_date = $5, updated_at = $6
		WHERE id = $7`,
		t.Title, t.Description, string(t.Status), t.AssignedTo, t.DueDate,
		t.UpdatedAt, t.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (s *TaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Pool.Exec(ctx, "DELETE FROM tasks WHERE id = $1", id.String())
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

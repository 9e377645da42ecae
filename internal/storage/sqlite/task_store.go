package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/taskpilot/taskpilot/internal/domain"
)

// TaskStore implements task.Repository backed by SQLite.
type TaskStore struct {
	db *DB
}

// NewTaskStore creates a new SQLite-backed task store.
func NewTaskStore(db *DB) *TaskStore {
	return &TaskStore{db: db}
}

// CreateInOwnedProject inserts the task only if its project belongs to its
// owner. The ownership check and the insert share one statement, so there
// is no window for the project to disappear in between.
func (s *TaskStore) CreateInOwnedProject(ctx context.Context, t *domain.Task) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, owner_id, project_id, title, description, status,
			assigned_to, due_date, created_at, updated_at)
		SELECT ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
		WHERE EXISTS (SELECT 1 FROM projects WHERE id = ? AND owner_id = ?)`,
		t.ID, t.OwnerID, t.ProjectID, t.Title, t.Description, t.Status,
		t.AssignedTo, t.DueDate, t.CreatedAt, t.UpdatedAt,
		t.ProjectID, t.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func (s *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, project_id, title, description, status,
			assigned_to, due_date, created_at, updated_at
		FROM tasks WHERE id = ?`, id)

	var t domain.Task
	err := row.Scan(&t.ID, &t.OwnerID, &t.ProjectID, &t.Title, &t.Description,
		&t.Status, &t.AssignedTo, &t.DueDate, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
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
		FROM tasks WHERE owner_id = ? ORDER BY due_date ASC`, ownerID)
}

func (s *TaskStore) ListByProject(ctx context.Context, ownerID, projectID uuid.UUID) ([]*domain.Task, error) {
	return s.list(ctx, `
		SELECT id, owner_id, project_id, title, description, status,
			assigned_to, due_date, created_at, updated_at
		FROM tasks WHERE owner_id = ? AND project_id = ? ORDER BY due_date ASC`,
		ownerID, projectID)
}

func (s *TaskStore) list(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
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
	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET title = ?, description = ?, status = ?,
			assigned_to = ?, due_date = ?, updated_at = ?
		WHERE id = ?`,
		t.Title, t.Description, t.Status, t.AssignedTo, t.DueDate, t.UpdatedAt, t.ID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (s *TaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

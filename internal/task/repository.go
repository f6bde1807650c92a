package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository is the task store. Lookups of a missing task return ErrTaskNotFound.
type Repository interface {
	Create(ctx context.Context, t *Task) error
	GetByID(ctx context.Context, id int64) (*Task, error)
	List(ctx context.Context, f Filter) ([]Task, error)
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed task repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const taskColumns = "id, title, description, is_closed, created_by_id, updated_by_id, created_at, updated_at"

// Create inserts t and assigns its ID. Timestamps are stored as given.
func (r *SQLiteRepository) Create(ctx context.Context, t *Task) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (title, description, is_closed, created_by_id, updated_by_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.Title, t.Description, boolToInt(t.IsClosed), t.CreatedByID, t.UpdatedByID,
		formatTime(t.CreatedAt), formatTime(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading task id: %w", err)
	}
	t.ID = id
	return nil
}

// GetByID retrieves a task by ID.
func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*Task, error) {
	return scanTask(r.db.QueryRowContext(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = ?", id))
}

// List returns the tasks matching f, ordered by ID.
func (r *SQLiteRepository) List(ctx context.Context, f Filter) ([]Task, error) {
	var conditions []string
	var args []any

	if f.CreatedByID != nil {
		conditions = append(conditions, "created_by_id = ?")
		args = append(args, *f.CreatedByID)
	}
	if f.IsClosed != nil {
		conditions = append(conditions, "is_closed = ?")
		args = append(args, boolToInt(*f.IsClosed))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	rows, err := r.db.QueryContext(ctx, "SELECT "+taskColumns+" FROM tasks"+where+" ORDER BY id ASC", args...) //nolint:gosec // WHERE built from fixed conditions
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	tasks := []Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

// Update saves every mutable column of t. created_by_id is never written.
func (r *SQLiteRepository) Update(ctx context.Context, t *Task) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, is_closed = ?, updated_by_id = ?, updated_at = ? WHERE id = ?`,
		t.Title, t.Description, boolToInt(t.IsClosed), t.UpdatedByID, formatTime(t.UpdatedAt), t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return expectOneRow(result)
}

// Delete removes a task by ID.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return expectOneRow(result)
}

// Count returns the total number of tasks.
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting tasks: %w", err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (*Task, error) {
	var t Task
	var isClosed int
	var createdAt, updatedAt string

	err := s.Scan(&t.ID, &t.Title, &t.Description, &isClosed, &t.CreatedByID, &t.UpdatedByID, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}

	t.IsClosed = isClosed != 0
	if t.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parsing task created_at %q: %w", createdAt, err)
	}
	if t.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing task updated_at %q: %w", updatedAt, err)
	}
	return &t, nil
}

func expectOneRow(result sql.Result) error {
	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	if rows == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/adanyl0v/go-task-api/internal/models"
	"github.com/adanyl0v/go-task-api/internal/storage"
)

const taskColumns = `id,
       title,
       description,
       due_date,
       tags,
       status,
       created_at`

func (s *Store) InsertTask(ctx context.Context, task *models.Task) error {
	const insertTaskQuery = `
INSERT INTO tasks (title,
                   description,
                   due_date,
                   tags,
                   status,
                   created_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at
`
	err := s.pool.QueryRow(
		ctx,
		insertTaskQuery,
		task.Title,
		task.Description,
		task.DueDate,
		task.Tags,
		string(task.Status),
		task.CreatedAt,
	).Scan(&task.ID, &task.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	task.CreatedAt = task.CreatedAt.UTC()
	return nil
}

func (s *Store) SelectTask(ctx context.Context, id int64) (*models.Task, error) {
	const selectTaskQuery = `
SELECT ` + taskColumns + `
FROM tasks
WHERE id = $1
`
	task, err := scanTask(s.pool.QueryRow(ctx, selectTaskQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select task: %w", err)
	}
	return task, nil
}

func (s *Store) SelectTasks(ctx context.Context, filter models.TaskFilter) ([]*models.Task, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE TRUE`)

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		fmt.Fprintf(&sb, " AND status = $%d", len(args))
	}
	if filter.DueDate != nil {
		args = append(args, *filter.DueDate)
		fmt.Fprintf(&sb, " AND due_date = $%d", len(args))
	}
	if filter.CreatedOn != nil {
		args = append(args, *filter.CreatedOn)
		fmt.Fprintf(&sb, " AND (created_at AT TIME ZONE 'UTC')::date = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		n := len(args)
		fmt.Fprintf(&sb, " AND (title ILIKE $%d OR description ILIKE $%d OR tags ILIKE $%d)", n, n, n)
	}
	sb.WriteString(" ORDER BY id")

	rows, err := s.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate over rows: %w", err)
	}
	return tasks, nil
}

func (s *Store) UpdateTask(ctx context.Context, task *models.Task) error {
	const updateTaskQuery = `
UPDATE tasks
SET title = $1,
    description = $2,
    due_date = $3,
    tags = $4,
    status = $5
WHERE id = $6
`
	tag, err := s.pool.Exec(
		ctx,
		updateTaskQuery,
		task.Title,
		task.Description,
		task.DueDate,
		task.Tags,
		string(task.Status),
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1
`
	tag, err := s.pool.Exec(ctx, deleteTaskQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanTask(row pgx.Row) (*models.Task, error) {
	var (
		task   models.Task
		status string
	)
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.DueDate,
		&task.Tags,
		&status,
		&task.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	task.Status = models.Status(status)
	task.CreatedAt = task.CreatedAt.UTC()
	return &task, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

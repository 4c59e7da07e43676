package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adanyl0v/go-task-api/internal/models"
	"github.com/adanyl0v/go-task-api/internal/storage"
)

type taskRow struct {
	ID          int64          `db:"id"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	DueDate     sql.NullString `db:"due_date"`
	Tags        sql.NullString `db:"tags"`
	Status      string         `db:"status"`
	CreatedAt   string         `db:"created_at"`
}

func (r taskRow) toModel() (*models.Task, error) {
	createdAt, err := parseTime(r.CreatedAt)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Status:      models.Status(r.Status),
		CreatedAt:   createdAt,
	}
	if r.DueDate.Valid {
		dueDate, err := time.Parse(models.DateLayout, r.DueDate.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse due date %q: %w", r.DueDate.String, err)
		}
		task.DueDate = &dueDate
	}
	if r.Tags.Valid {
		tags := r.Tags.String
		task.Tags = &tags
	}
	return task, nil
}

func nullDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(models.DateLayout), Valid: true}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

const selectTaskColumns = `SELECT id, title, description, due_date, tags, status, created_at FROM tasks`

func (s *Store) InsertTask(ctx context.Context, task *models.Task) error {
	const q = `
		INSERT INTO tasks (title, description, due_date, tags, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	res, err := s.db.ExecContext(ctx, q,
		task.Title,
		task.Description,
		nullDate(task.DueDate),
		nullString(task.Tags),
		string(task.Status),
		formatTime(task.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get task id: %w", err)
	}
	task.ID = id
	return nil
}

func (s *Store) SelectTask(ctx context.Context, id int64) (*models.Task, error) {
	var row taskRow
	err := s.db.GetContext(ctx, &row, selectTaskColumns+` WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select task: %w", err)
	}
	return row.toModel()
}

func (s *Store) SelectTasks(ctx context.Context, filter models.TaskFilter) ([]*models.Task, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(selectTaskColumns + ` WHERE 1=1`)

	if filter.Status != nil {
		sb.WriteString(" AND status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.DueDate != nil {
		sb.WriteString(" AND due_date = ?")
		args = append(args, filter.DueDate.Format(models.DateLayout))
	}
	if filter.CreatedOn != nil {
		sb.WriteString(" AND substr(created_at, 1, 10) = ?")
		args = append(args, filter.CreatedOn.Format(models.DateLayout))
	}
	if filter.Search != "" {
		sb.WriteString(` AND (title LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\' OR tags LIKE ? ESCAPE '\')`)
		pattern := "%" + escapeLike(filter.Search) + "%"
		args = append(args, pattern, pattern, pattern)
	}
	sb.WriteString(" ORDER BY id")

	var rows []taskRow
	err := s.db.SelectContext(ctx, &rows, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select tasks: %w", err)
	}

	tasks := make([]*models.Task, 0, len(rows))
	for _, row := range rows {
		task, err := row.toModel()
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (s *Store) UpdateTask(ctx context.Context, task *models.Task) error {
	const q = `
		UPDATE tasks
		SET title = ?,
		    description = ?,
		    due_date = ?,
		    tags = ?,
		    status = ?
		WHERE id = ?
	`
	res, err := s.db.ExecContext(ctx, q,
		task.Title,
		task.Description,
		nullDate(task.DueDate),
		nullString(task.Tags),
		string(task.Status),
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

package storage

import (
	"context"
	"errors"

	"github.com/adanyl0v/go-task-api/internal/models"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type TaskRepository interface {
	// InsertTask stores the task and sets its ID.
	InsertTask(ctx context.Context, task *models.Task) error

	// SelectTask returns ErrNotFound if no task has the given id.
	SelectTask(ctx context.Context, id int64) (*models.Task, error)

	// SelectTasks returns the tasks matching the filter ordered by id.
	SelectTasks(ctx context.Context, filter models.TaskFilter) ([]*models.Task, error)

	// UpdateTask overwrites every mutable column of the task. It never
	// touches id or created_at and returns ErrNotFound if the row is gone.
	UpdateTask(ctx context.Context, task *models.Task) error

	// DeleteTask returns ErrNotFound if no row was deleted.
	DeleteTask(ctx context.Context, id int64) error
}

type UserRepository interface {
	// InsertUser returns ErrAlreadyExists on a duplicate username.
	InsertUser(ctx context.Context, user *models.User) error
	SelectUserByUsername(ctx context.Context, username string) (*models.User, error)
	SelectUserByID(ctx context.Context, id string) (*models.User, error)
}

// Store is everything the application needs from a database backend.
type Store interface {
	TaskRepository
	UserRepository

	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Close() error
}

package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/adanyl0v/go-task-api/internal/models"
)

var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrUserPasswordMismatch = errors.New("user password mismatch")
	ErrInvalidToken         = errors.New("invalid token")
)

// ValidationError reports a rejected task field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

type TaskService interface {
	// CreateTask validates and normalizes the params and stores a new task.
	//
	// It returns a *ValidationError if title or description is missing,
	// blank or too long, or if status is blank or unknown. An omitted
	// status defaults to models.StatusOpen.
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)

	// GetTask returns ErrTaskNotFound if the task doesn't exist.
	GetTask(ctx context.Context, id int64) (*models.Task, error)

	// GetTasks returns every task matching the filter. An empty filter
	// matches all tasks.
	GetTasks(ctx context.Context, filter models.TaskFilter) ([]*models.Task, error)

	// UpdateTask applies the non-nil params to an existing task.
	//
	// Tags are normalized only when a non-blank value is given; a blank
	// value keeps the stored tags. It returns ErrTaskNotFound if the task
	// doesn't exist.
	UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error)

	// DeleteTask returns ErrTaskNotFound if the task doesn't exist.
	DeleteTask(ctx context.Context, id int64) error
}

type AuthService interface {
	// Authenticate checks the username and password against the user store.
	//
	// It returns ErrUserNotFound if no such user exists or
	// ErrUserPasswordMismatch if the password doesn't match.
	Authenticate(ctx context.Context, username, password string) (*models.User, error)

	// Register creates a user with an argon2id hash of the password.
	//
	// It returns ErrUserAlreadyExists if the username is taken.
	Register(ctx context.Context, username, password string) (*models.User, error)

	// IssueToken signs a short-lived access token for the user.
	IssueToken(user *models.User) (*IssueTokenResult, error)

	// AuthenticateToken parses the token and returns the user it was issued
	// for. Any token problem is reported as an error wrapping ErrInvalidToken,
	// and ErrUserNotFound is returned if the subject no longer exists.
	AuthenticateToken(ctx context.Context, token string) (*models.User, error)

	// ParseJWTToken parses the given JWT token and returns the registered
	// claims. Errors wrap ErrInvalidToken, and also jwt.ErrTokenExpired if
	// the token is expired.
	ParseJWTToken(token string) (*jwt.RegisteredClaims, error)
}

type CreateTaskParams struct {
	Title       string
	Description string
	Status      *string
	DueDate     *time.Time
	Tags        *string
}

type UpdateTaskParams struct {
	ID          int64
	Title       *string
	Description *string
	Status      *string
	Tags        *string

	// DueDate is applied only when SetDueDate is true, so that a nil
	// DueDate can clear the stored value.
	SetDueDate bool
	DueDate    *time.Time
}

type IssueTokenResult struct {
	AccessToken          string
	AccessTokenExpiresAt time.Time
}

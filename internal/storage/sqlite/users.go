package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/adanyl0v/go-task-api/internal/models"
	"github.com/adanyl0v/go-task-api/internal/storage"
)

type userRow struct {
	ID        string `db:"id"`
	Username  string `db:"username"`
	Password  string `db:"password"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

func (r userRow) toModel() (*models.User, error) {
	createdAt, err := parseTime(r.CreatedAt)
	if err != nil {
		return nil, err
	}
	updatedAt, err := parseTime(r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &models.User{
		ID:        r.ID,
		Username:  r.Username,
		Password:  r.Password,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

func (s *Store) InsertUser(ctx context.Context, user *models.User) error {
	const q = `
		INSERT INTO users (id, username, password, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, q,
		user.ID,
		user.Username,
		user.Password,
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *Store) SelectUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.selectUser(ctx, `SELECT id, username, password, created_at, updated_at FROM users WHERE username = ?`, username)
}

func (s *Store) SelectUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.selectUser(ctx, `SELECT id, username, password, created_at, updated_at FROM users WHERE id = ?`, id)
}

func (s *Store) selectUser(ctx context.Context, query string, arg any) (*models.User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select user: %w", err)
	}
	return row.toModel()
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		// Connections without extended result codes only report the
		// primary code.
		return strings.Contains(sqliteErr.Error(), "UNIQUE constraint failed")
	}
	return false
}

// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"errors"

	"github.com/mikhailyemets/todoplash/internal/domain"
)

var (
	// ErrNotFound is returned when the requested task or user does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicate is returned when a user with the same telegram_id already exists.
	ErrDuplicate = errors.New("store: already exists")
)

// Repository defines the interface for persisting tasks and users.
type Repository interface {
	// CreateTask inserts a new task and returns it with its assigned ID.
	CreateTask(ctx context.Context, description string) (*domain.Task, error)

	// GetTask retrieves a task by ID.
	GetTask(ctx context.Context, id int64) (*domain.Task, error)

	// ListTasks returns all tasks ordered by ID.
	ListTasks(ctx context.Context) ([]domain.Task, error)

	// UpdateTask replaces the description of an existing task.
	UpdateTask(ctx context.Context, id int64, description string) (*domain.Task, error)

	// DeleteTask removes a task by ID.
	DeleteTask(ctx context.Context, id int64) error

	// DeleteAllTasks removes every task and returns how many were deleted.
	DeleteAllTasks(ctx context.Context) (int64, error)

	// ListUsers returns all users ordered by ID.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// AddUser registers a new user. Returns ErrDuplicate if telegramID is taken.
	AddUser(ctx context.Context, telegramID, group string) (*domain.User, error)

	// GetUser retrieves a user by telegram ID.
	GetUser(ctx context.Context, telegramID string) (*domain.User, error)

	// DeleteUser removes a user by telegram ID.
	DeleteUser(ctx context.Context, telegramID string) error

	// EditUser changes the group of an existing user.
	EditUser(ctx context.Context, telegramID, group string) (*domain.User, error)

	// Ping verifies database connectivity and returns an error if the database is unreachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}

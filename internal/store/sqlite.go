package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mikhailyemets/todoplash/internal/domain"
	"github.com/mikhailyemets/todoplash/internal/shared"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := "file:" + dbPath + "?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		description TEXT NOT NULL CHECK (length(description) <= 255),
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		telegram_id TEXT NOT NULL UNIQUE CHECK (length(telegram_id) <= 20),
		group_name TEXT NOT NULL CHECK (length(group_name) <= 50),
		created_at INTEGER NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// execWithRetry runs a write, retrying with exponential backoff on SQLITE_BUSY.
func (s *SQLiteStore) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	const maxRetries = 3
	baseDelay := 100 * time.Millisecond

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		res, err := s.db.ExecContext(ctx, query, args...)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if !shared.IsSQLiteConflictError(err) || i == maxRetries-1 {
			break
		}

		delay := baseDelay * time.Duration(1<<i) // 100ms, 200ms
		slog.Debug("write failed with SQLITE_BUSY, retrying", "attempt", i+1, "delay", delay)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil, lastErr
}

// CreateTask inserts a new task.
func (s *SQLiteStore) CreateTask(ctx context.Context, description string) (*domain.Task, error) {
	now := time.Now().UTC().Truncate(time.Second)
	res, err := s.execWithRetry(ctx,
		`INSERT INTO tasks (description, created_at) VALUES (?, ?)`,
		description, now.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get task id: %w", err)
	}
	return &domain.Task{ID: id, Description: description, CreatedAt: now}, nil
}

// GetTask retrieves a task by ID.
func (s *SQLiteStore) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, description, created_at FROM tasks WHERE id = ?`, id)

	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan task row: %w", err)
	}
	return task, nil
}

// ListTasks returns all tasks ordered by ID.
func (s *SQLiteStore) ListTasks(ctx context.Context) ([]domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, description, created_at FROM tasks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close task rows", "error", closeErr)
		}
	}()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task row: %w", err)
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask replaces the description of an existing task.
func (s *SQLiteStore) UpdateTask(ctx context.Context, id int64, description string) (*domain.Task, error) {
	res, err := s.execWithRetry(ctx, `UPDATE tasks SET description = ? WHERE id = ?`, description, id)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if err := requireRow(res); err != nil {
		return nil, err
	}
	return s.GetTask(ctx, id)
}

// DeleteTask removes a task by ID.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id int64) error {
	res, err := s.execWithRetry(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return requireRow(res)
}

// DeleteAllTasks removes every task and returns how many were deleted.
func (s *SQLiteStore) DeleteAllTasks(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM tasks`)
	if err != nil {
		return 0, fmt.Errorf("delete all tasks: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return n, nil
}

// ListUsers returns all users ordered by ID.
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, telegram_id, group_name, created_at FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close user rows", "error", closeErr)
		}
	}()

	users := make([]domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// AddUser registers a new user.
func (s *SQLiteStore) AddUser(ctx context.Context, telegramID, group string) (*domain.User, error) {
	now := time.Now().UTC().Truncate(time.Second)
	res, err := s.execWithRetry(ctx,
		`INSERT INTO users (telegram_id, group_name, created_at) VALUES (?, ?, ?)`,
		telegramID, group, now.Unix(),
	)
	if shared.IsSQLiteUniqueError(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get user id: %w", err)
	}
	return &domain.User{ID: id, TelegramID: telegramID, Group: group, CreatedAt: now}, nil
}

// GetUser retrieves a user by telegram ID.
func (s *SQLiteStore) GetUser(ctx context.Context, telegramID string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, telegram_id, group_name, created_at FROM users WHERE telegram_id = ?`, telegramID)

	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user row: %w", err)
	}
	return user, nil
}

// DeleteUser removes a user by telegram ID.
func (s *SQLiteStore) DeleteUser(ctx context.Context, telegramID string) error {
	res, err := s.execWithRetry(ctx, `DELETE FROM users WHERE telegram_id = ?`, telegramID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireRow(res)
}

// EditUser changes the group of an existing user.
func (s *SQLiteStore) EditUser(ctx context.Context, telegramID, group string) (*domain.User, error) {
	res, err := s.execWithRetry(ctx, `UPDATE users SET group_name = ? WHERE telegram_id = ?`, group, telegramID)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if err := requireRow(res); err != nil {
		return nil, err
	}
	return s.GetUser(ctx, telegramID)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var createdAt int64
	if err := row.Scan(&task.ID, &task.Description, &createdAt); err != nil {
		return nil, err
	}
	task.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &task, nil
}

func scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	var createdAt int64
	if err := row.Scan(&user.ID, &user.TelegramID, &user.Group, &createdAt); err != nil {
		return nil, err
	}
	user.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &user, nil
}

func requireRow(res sql.Result) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

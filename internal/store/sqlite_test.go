package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func newTestStore(t *testing.T) Repository {
	t.Helper()
	repo, err := NewSQLite(filepath.Join(t.TempDir(), "todos.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestSQLiteStore_TaskLifecycle(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	created, err := repo.CreateTask(ctx, "buy milk")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "buy milk", got.Description)

	updated, err := repo.UpdateTask(ctx, created.ID, "buy oat milk")
	require.NoError(t, err)
	assert.Equal(t, "buy oat milk", updated.Description)

	_, err = repo.CreateTask(ctx, "walk the dog")
	require.NoError(t, err)

	tasks, err := repo.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, created.ID, tasks[0].ID)

	require.NoError(t, repo.DeleteTask(ctx, created.ID))
	_, err = repo.GetTask(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.DeleteTask(ctx, created.ID), ErrNotFound)

	_, err = repo.UpdateTask(ctx, 9999, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_DeleteAllTasks(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	n, err := repo.DeleteAllTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	for _, d := range []string{"a", "b", "c"} {
		_, err := repo.CreateTask(ctx, d)
		require.NoError(t, err)
	}
	n, err = repo.DeleteAllTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	tasks, err := repo.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestSQLiteStore_UserLifecycle(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	user, err := repo.AddUser(ctx, "555", "testers")
	require.NoError(t, err)
	assert.Equal(t, "testers", user.Group)

	_, err = repo.AddUser(ctx, "555", "admins")
	assert.ErrorIs(t, err, ErrDuplicate)

	edited, err := repo.EditUser(ctx, "555", "admins")
	require.NoError(t, err)
	assert.Equal(t, "admins", edited.Group)
	assert.Equal(t, user.ID, edited.ID)

	users, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "555", users[0].TelegramID)

	require.NoError(t, repo.DeleteUser(ctx, "555"))
	assert.ErrorIs(t, repo.DeleteUser(ctx, "555"), ErrNotFound)
	_, err = repo.EditUser(ctx, "555", "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewSQLite_ClosesHandleOnFailure(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	// A directory cannot be opened as a database file.
	repo, err := NewSQLite(t.TempDir())
	require.Error(t, err)
	assert.Nil(t, repo)
}

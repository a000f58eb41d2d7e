package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mikhailyemets/todoplash/internal/session"
)

func TestMemoryStore_DeleteExpired(t *testing.T) {
	store := session.NewMemoryStore()
	ctx := context.Background()

	stale := session.New("old")
	stale.State = session.StateAwaitTaskDesc
	stale.UpdatedAt = time.Now().Add(-2 * time.Hour)
	require.NoError(t, store.Save(ctx, stale))

	fresh := session.New("new")
	fresh.Enter(session.StateAwaitDomainList)
	require.NoError(t, store.Save(ctx, fresh))

	n, err := store.DeleteExpired(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = store.Load(ctx, "old")
	assert.ErrorIs(t, err, session.ErrNotFound)
	_, err = store.Load(ctx, "new")
	assert.NoError(t, err)
}

func TestTTLWorker_ExpiresAndStops(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	store := session.NewMemoryStore()
	stale := session.New("old")
	stale.State = session.StateAwaitTaskDesc
	stale.UpdatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, store.Save(context.Background(), stale))

	ctx, cancel := context.WithCancel(context.Background())
	done := session.StartTTLWorkerEvery(ctx, store, time.Minute, 10*time.Millisecond, nil)

	assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
